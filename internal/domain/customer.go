package domain

// Customer is the subset of customer data this service reads from the customer directory
type Customer struct {
	ID         int64
	TenantID   int64
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Preference CommunicationPreference
}

// FullName joins first and last name
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}
