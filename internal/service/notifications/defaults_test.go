package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type failingSeeder struct{}

func (failingSeeder) CreateIfMissing(context.Context, *domain.Template) (bool, error) {
	return false, errors.New("db down")
}

func TestDefaultTemplates_CoverEveryCodeAndChannel(t *testing.T) {
	templates := DefaultTemplates(7, now)
	require.Len(t, templates, 8)

	vars := Variables(confirmedEvent())
	seen := map[string]bool{}
	for _, tpl := range templates {
		seen[tpl.Code+"/"+string(tpl.Channel)] = true
		assert.Equal(t, int64(7), tpl.TenantID)
		assert.True(t, tpl.Active)

		_, missing := Render(tpl.Body, vars)
		assert.Empty(t, missing, "%s/%s body", tpl.Code, tpl.Channel)

		if tpl.Channel == domain.ChannelEmail {
			require.NotNil(t, tpl.Subject)
			_, missing = Render(*tpl.Subject, vars)
			assert.Empty(t, missing)
		} else {
			assert.Nil(t, tpl.Subject)
		}
	}

	for _, code := range []string{
		domain.TemplateAppointmentConfirmed,
		domain.TemplateAppointmentCancelled,
		domain.TemplateAppointmentCompleted,
		domain.TemplateAppointmentReminder,
	} {
		assert.True(t, seen[code+"/SMS"], code)
		assert.True(t, seen[code+"/EMAIL"], code)
	}
}

func TestSeedDefaultTemplates_KeepsExistingAndIsRepeatable(t *testing.T) {
	repo := memory.NewTemplateRepository()
	repo.Put(&domain.Template{TenantID: 1, Code: domain.TemplateAppointmentConfirmed, Channel: domain.ChannelSMS, Body: "custom", Active: true})
	repo.Put(&domain.Template{TenantID: 1, Code: domain.TemplateAppointmentReminder, Channel: domain.ChannelEmail, Subject: ptr.Ptr("off"), Body: "off", Active: false})

	created, err := SeedDefaultTemplates(context.Background(), repo, []int64{1, 2}, &clock{t: now}, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 14, created)

	created, err = SeedDefaultTemplates(context.Background(), repo, []int64{1, 2}, &clock{t: now}, logger.NewNop())
	require.NoError(t, err)
	assert.Zero(t, created)

	tpl, err := repo.GetActive(context.Background(), 1, domain.TemplateAppointmentConfirmed, domain.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, "custom", tpl.Body)

	_, err = repo.GetActive(context.Background(), 1, domain.TemplateAppointmentReminder, domain.ChannelEmail)
	assert.Error(t, err)

	tpl, err = repo.GetActive(context.Background(), 2, domain.TemplateAppointmentCancelled, domain.ChannelSMS)
	require.NoError(t, err)
	assert.Contains(t, tpl.Body, "${customerName}")
}

func TestSeedDefaultTemplates_ConfirmedSMSIsDelivered(t *testing.T) {
	f := newOrchestratorFixture(NoShowSuppress)
	_, err := SeedDefaultTemplates(context.Background(), f.templates, []int64{1}, &clock{t: now}, logger.NewNop())
	require.NoError(t, err)

	rec, err := f.orchestrator.Handle(context.Background(), confirmedEvent())
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, domain.NotificationSent, rec.Status)
	assert.Contains(t, rec.Body, "Ann Lee")
	assert.NotContains(t, rec.Body, "${")
}

func TestSeedDefaultTemplates_RepositoryError(t *testing.T) {
	created, err := SeedDefaultTemplates(context.Background(), failingSeeder{}, []int64{1}, &clock{t: now}, logger.NewNop())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, created)
}
