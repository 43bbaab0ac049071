package officer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btoportal/internal/application"
	"btoportal/internal/project"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
	dErrors "btoportal/pkg/domain-errors"
	"btoportal/pkg/requestcontext"
)

const (
	officerNRIC  = "T1111111C"
	secondNRIC   = "T2222222D"
	managerNRIC  = "S5678901G"
	otherManager = "S8888888H"
)

type fixture struct {
	service  *Service
	users    *user.InMemoryStore
	projects *project.InMemoryStore
	apps     *application.InMemoryStore
	project  *project.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := user.NewInMemoryStore()
	seed := []user.User{
		{NRIC: officerNRIC, Name: "Daniel", Age: 30, MaritalStatus: domain.MaritalStatusMarried, Role: domain.RoleOfficer},
		{NRIC: secondNRIC, Name: "Emily", Age: 28, MaritalStatus: domain.MaritalStatusSingle, Role: domain.RoleOfficer},
		{NRIC: managerNRIC, Name: "Jessica", Age: 45, MaritalStatus: domain.MaritalStatusMarried, Role: domain.RoleManager},
		{NRIC: otherManager, Name: "Michael", Age: 50, MaritalStatus: domain.MaritalStatusMarried, Role: domain.RoleManager},
	}
	for _, u := range seed {
		require.NoError(t, users.Create(ctx, u))
	}

	projects := project.NewInMemoryStore()
	p := &project.Project{
		Name:         "Acacia Breeze",
		Neighborhood: "Yishun",
		Flats: map[domain.FlatType]project.FlatInfo{
			domain.FlatTypeTwoRoom: {Units: 2, Price: 350000},
		},
		ManagerNRIC:  managerNRIC,
		Visible:      true,
		OfficerSlots: 1,
	}
	require.NoError(t, projects.Create(ctx, p))

	apps := application.NewInMemoryStore()
	return &fixture{
		service:  New(users, projects, apps),
		users:    users,
		projects: projects,
		apps:     apps,
		project:  p,
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("submits a pending registration", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.service.Register(ctx, officerNRIC, f.project.ID))

		u, err := f.users.FindByNRIC(ctx, officerNRIC)
		require.NoError(t, err)
		assert.Equal(t, user.RegistrationPending, u.Assignment.Status)
		assert.Equal(t, f.project.ID, u.Assignment.RegisteredProjectID)
		assert.False(t, u.Assignment.HandlesProject())
	})

	t.Run("rejects an officer already handling a project", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.users.UpdateAssignment(ctx, officerNRIC, user.OfficerAssignment{
			RegisteredProjectID: f.project.ID,
			Status:              user.RegistrationApproved,
			HandlingProjectID:   f.project.ID,
		}))

		err := f.service.Register(ctx, officerNRIC, f.project.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	})

	t.Run("rejects an officer with an application against the project", func(t *testing.T) {
		f := newFixture(t)
		app := application.Application{
			ID:            uuid.New(),
			ApplicantNRIC: officerNRIC,
			ProjectID:     f.project.ID,
			FlatType:      domain.FlatTypeTwoRoom,
			Status:        application.StatusUnsuccessful,
			SubmittedAt:   time.Now(),
		}
		require.NoError(t, f.apps.CreateIfNoActive(ctx, app))

		err := f.service.Register(ctx, officerNRIC, f.project.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("rejects non-officers", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.Register(ctx, managerNRIC, f.project.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAuthorizationDenied))
	})

	t.Run("unknown project", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.Register(ctx, officerNRIC, 999)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestService_Approve(t *testing.T) {
	ctx := requestcontext.WithRequestID(context.Background(), "test")

	t.Run("grants the registration and assigns the project", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.service.Register(ctx, officerNRIC, f.project.ID))

		require.NoError(t, f.service.Approve(ctx, managerNRIC, officerNRIC))

		u, err := f.users.FindByNRIC(ctx, officerNRIC)
		require.NoError(t, err)
		assert.Equal(t, user.RegistrationApproved, u.Assignment.Status)
		assert.Equal(t, f.project.ID, u.Assignment.HandlingProjectID)

		p, err := f.projects.FindByID(ctx, f.project.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{officerNRIC}, p.Officers)
	})

	t.Run("slot exhaustion fails and leaves the registration pending", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.service.Register(ctx, officerNRIC, f.project.ID))
		require.NoError(t, f.service.Register(ctx, secondNRIC, f.project.ID))
		require.NoError(t, f.service.Approve(ctx, managerNRIC, officerNRIC))

		err := f.service.Approve(ctx, managerNRIC, secondNRIC)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeSlotExhausted))

		u, err := f.users.FindByNRIC(ctx, secondNRIC)
		require.NoError(t, err)
		assert.Equal(t, user.RegistrationPending, u.Assignment.Status)
		assert.False(t, u.Assignment.HandlesProject())
	})

	t.Run("only the owning manager may approve", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.service.Register(ctx, officerNRIC, f.project.ID))

		err := f.service.Approve(ctx, otherManager, officerNRIC)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAuthorizationDenied))
	})

	t.Run("nothing pending", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.Approve(ctx, managerNRIC, officerNRIC)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	})
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.service.Register(ctx, officerNRIC, f.project.ID))

	require.NoError(t, f.service.Reject(ctx, managerNRIC, officerNRIC))

	u, err := f.users.FindByNRIC(ctx, officerNRIC)
	require.NoError(t, err)
	assert.Equal(t, user.RegistrationRejected, u.Assignment.Status)
	assert.False(t, u.Assignment.HandlesProject())

	p, err := f.projects.FindByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Officers)
}
