package report

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btoportal/internal/application"
	"btoportal/internal/project"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
)

const (
	managerNRIC   = "S5678901G"
	otherManager  = "S8888888H"
	applicantNRIC = "S1234567A"
	officerNRIC   = "T1111111C"
)

type fixture struct {
	service  *Service
	users    *user.InMemoryStore
	projects *project.InMemoryStore
	apps     *application.InMemoryStore
	owned    *project.Project
	foreign  *project.Project
}

// newFixture seeds two projects under different managers so queue scoping is
// observable.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := user.NewInMemoryStore()
	seed := []user.User{
		{NRIC: applicantNRIC, Name: "Sarah", Age: 36, MaritalStatus: domain.MaritalStatusSingle, Role: domain.RoleApplicant},
		{NRIC: officerNRIC, Name: "Daniel", Age: 30, MaritalStatus: domain.MaritalStatusMarried, Role: domain.RoleOfficer},
		{NRIC: managerNRIC, Name: "Jessica", Age: 45, MaritalStatus: domain.MaritalStatusMarried, Role: domain.RoleManager},
		{NRIC: otherManager, Name: "Michael", Age: 50, MaritalStatus: domain.MaritalStatusMarried, Role: domain.RoleManager},
	}
	for _, u := range seed {
		require.NoError(t, users.Create(ctx, u))
	}

	projects := project.NewInMemoryStore()
	owned := &project.Project{
		Name:        "Acacia Breeze",
		Flats:       map[domain.FlatType]project.FlatInfo{domain.FlatTypeTwoRoom: {Units: 2}},
		ManagerNRIC: managerNRIC,
		Visible:     true,
	}
	foreign := &project.Project{
		Name:        "Bishan Ridge",
		Flats:       map[domain.FlatType]project.FlatInfo{domain.FlatTypeTwoRoom: {Units: 2}},
		ManagerNRIC: otherManager,
		Visible:     true,
	}
	require.NoError(t, projects.Create(ctx, owned))
	require.NoError(t, projects.Create(ctx, foreign))

	apps := application.NewInMemoryStore()
	return &fixture{
		service:  New(apps, projects, users),
		users:    users,
		projects: projects,
		apps:     apps,
		owned:    owned,
		foreign:  foreign,
	}
}

func (f *fixture) addApplication(t *testing.T, nric string, projectID int64, status application.Status, withdrawal bool) application.Application {
	t.Helper()
	app := application.Application{
		ID:                  uuid.New(),
		ApplicantNRIC:       nric,
		ProjectID:           projectID,
		FlatType:            domain.FlatTypeTwoRoom,
		Status:              status,
		WithdrawalRequested: withdrawal,
	}
	require.NoError(t, f.apps.CreateIfNoActive(context.Background(), app))
	return app
}

func TestService_PendingApplications(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	pending := f.addApplication(t, applicantNRIC, f.owned.ID, application.StatusPending, false)
	f.addApplication(t, officerNRIC, f.foreign.ID, application.StatusPending, false)

	rows, err := f.service.PendingApplications(ctx, managerNRIC)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pending.ID, rows[0].Application.ID)
	assert.Equal(t, "Sarah", rows[0].ApplicantName)
	assert.Equal(t, "Acacia Breeze", rows[0].ProjectName)
}

func TestService_WithdrawalRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	flagged := f.addApplication(t, applicantNRIC, f.owned.ID, application.StatusSuccessful, true)
	f.addApplication(t, officerNRIC, f.owned.ID, application.StatusPending, false)

	rows, err := f.service.WithdrawalRequests(ctx, managerNRIC)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, flagged.ID, rows[0].Application.ID)
}

func TestService_PendingOfficers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.users.UpdateAssignment(ctx, officerNRIC, user.OfficerAssignment{
		RegisteredProjectID: f.owned.ID,
		Status:              user.RegistrationPending,
	}))

	t.Run("owning manager sees the registration", func(t *testing.T) {
		rows, err := f.service.PendingOfficers(ctx, managerNRIC)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, officerNRIC, rows[0].OfficerNRIC)
		assert.Equal(t, "Daniel", rows[0].OfficerName)
		assert.Equal(t, f.owned.ID, rows[0].ProjectID)
	})

	t.Run("other managers see nothing", func(t *testing.T) {
		rows, err := f.service.PendingOfficers(ctx, otherManager)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestService_BookedApplications(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.addApplication(t, applicantNRIC, f.owned.ID, application.StatusBooked, false)
	f.addApplication(t, officerNRIC, f.foreign.ID, application.StatusBooked, false)

	rows, err := f.service.BookedApplications(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	names := map[string]string{}
	for _, row := range rows {
		names[row.ApplicantNRIC] = row.ProjectName
	}
	assert.Equal(t, "Acacia Breeze", names[applicantNRIC])
	assert.Equal(t, "Bishan Ridge", names[officerNRIC])
}

func TestService_DashboardFor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.addApplication(t, applicantNRIC, f.owned.ID, application.StatusPending, false)
	f.addApplication(t, officerNRIC, f.owned.ID, application.StatusSuccessful, true)

	d, err := f.service.DashboardFor(ctx, managerNRIC)
	require.NoError(t, err)
	assert.Len(t, d.PendingApplications, 1)
	assert.Len(t, d.WithdrawalRequests, 1)
	assert.Empty(t, d.PendingOfficers)
}
