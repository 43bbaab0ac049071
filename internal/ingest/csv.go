// Package ingest loads the bootstrap CSV lists: applicants, managers,
// officers, and projects. It is an I/O collaborator around the domain stores;
// all rules live in the services.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"btoportal/internal/auth"
	"btoportal/internal/project"
	"btoportal/internal/user"
	"btoportal/pkg/domain"
	platformstrings "btoportal/pkg/platform/strings"
)

// UserStore is the user surface ingestion writes through.
type UserStore interface {
	Create(ctx context.Context, u user.User) error
	ListByRole(ctx context.Context, role domain.Role) ([]user.User, error)
	UpdateAssignment(ctx context.Context, nric string, assignment user.OfficerAssignment) error
}

// ProjectStore is the registry surface ingestion writes through.
type ProjectStore interface {
	Create(ctx context.Context, p *project.Project) error
}

// LoadUsers reads a user list CSV (Name, NRIC, Age, Marital Status, Password)
// and creates one user per row with the given role. Passwords are hashed on
// the way in; plaintext is never stored.
func LoadUsers(ctx context.Context, path string, role domain.Role, users UserStore) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		age, err := strconv.Atoi(row["Age"])
		if err != nil {
			return count, fmt.Errorf("row %d: invalid age: %w", i+1, err)
		}
		marital, err := domain.ParseMaritalStatus(row["Marital Status"])
		if err != nil {
			return count, fmt.Errorf("row %d: %w", i+1, err)
		}
		hash, err := auth.HashCredential(row["Password"])
		if err != nil {
			return count, fmt.Errorf("row %d: %w", i+1, err)
		}

		u := user.User{
			NRIC:           strings.TrimSpace(row["NRIC"]),
			Name:           strings.TrimSpace(row["Name"]),
			Age:            age,
			MaritalStatus:  marital,
			Role:           role,
			CredentialHash: hash,
		}
		if role == domain.RoleOfficer {
			u.Assignment = user.OfficerAssignment{Status: user.RegistrationNone}
		}
		if err := users.Create(ctx, u); err != nil {
			return count, fmt.Errorf("row %d: %w", i+1, err)
		}
		count++
	}
	return count, nil
}

// LoadProjects reads the project list CSV. Each row carries two flat-type
// unit/price pairs, the application window, the owning manager (by name or
// NRIC), the officer-slot count, and an optional comma-separated list of
// pre-assigned officers, who start out Approved and handling the project.
func LoadProjects(ctx context.Context, path string, users UserStore, projects ProjectStore) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}

	managers, err := users.ListByRole(ctx, domain.RoleManager)
	if err != nil {
		return 0, err
	}
	officers, err := users.ListByRole(ctx, domain.RoleOfficer)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		flats, err := parseFlats(row)
		if err != nil {
			return count, fmt.Errorf("row %d: %w", i+1, err)
		}
		slots, err := strconv.Atoi(row["Officer Slot"])
		if err != nil {
			return count, fmt.Errorf("row %d: invalid officer slot: %w", i+1, err)
		}

		manager := matchUser(managers, row["Manager"])
		if manager == nil {
			return count, fmt.Errorf("row %d: unknown manager %q", i+1, row["Manager"])
		}

		p := &project.Project{
			Name:         strings.TrimSpace(row["Project Name"]),
			Neighborhood: strings.TrimSpace(row["Neighborhood"]),
			Flats:        flats,
			OpenDate:     parseDate(row["Application opening date"]),
			CloseDate:    parseDate(row["Application closing date"]),
			ManagerNRIC:  manager.NRIC,
			Visible:      true,
			OfficerSlots: slots,
		}

		var assigned []*user.User
		for _, name := range platformstrings.DedupeAndTrim(strings.Split(row["Officer"], ",")) {
			if o := matchUser(officers, name); o != nil {
				p.Officers = append(p.Officers, o.NRIC)
				assigned = append(assigned, o)
			}
		}

		if err := projects.Create(ctx, p); err != nil {
			return count, fmt.Errorf("row %d: %w", i+1, err)
		}

		for _, o := range assigned {
			assignment := user.OfficerAssignment{
				RegisteredProjectID: p.ID,
				Status:              user.RegistrationApproved,
				HandlingProjectID:   p.ID,
			}
			if err := users.UpdateAssignment(ctx, o.NRIC, assignment); err != nil {
				return count, fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		count++
	}
	return count, nil
}

func parseFlats(row map[string]string) (map[domain.FlatType]project.FlatInfo, error) {
	flats := make(map[domain.FlatType]project.FlatInfo, 2)
	for _, n := range []string{"1", "2"} {
		label := strings.TrimSpace(row["Type "+n])
		if label == "" {
			continue
		}
		ft, err := domain.ParseFlatType(label)
		if err != nil {
			return nil, err
		}
		units, err := strconv.Atoi(row["Number of units for Type "+n])
		if err != nil {
			return nil, fmt.Errorf("invalid unit count for type %s: %w", n, err)
		}
		price, err := strconv.ParseInt(row["Selling price for Type "+n], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price for type %s: %w", n, err)
		}
		flats[ft] = project.FlatInfo{Units: units, Price: price}
	}
	return flats, nil
}

// parseDate expects YYYY-MM-DD and returns the zero time on bad input; a
// project without a parsed window accepts applications at any time, matching
// the lenient source data.
func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// matchUser resolves a reference that may be either a display name or an NRIC.
func matchUser(users []user.User, ref string) *user.User {
	ref = strings.TrimSpace(ref)
	for i := range users {
		if users[i].Name == ref || users[i].NRIC == ref {
			return &users[i]
		}
	}
	return nil
}

func readAll(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[strings.TrimSpace(col)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
