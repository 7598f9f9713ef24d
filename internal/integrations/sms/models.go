package sms

// webhookPayload тело запроса к SMS-шлюзу
type webhookPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}
