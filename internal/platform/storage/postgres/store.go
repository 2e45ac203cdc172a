package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
)

const employeeColumns = `employee_id, name, email, phone, designation, department, date_of_joining,
	location, experience_years, skills, skills_count, created_at`

// Store implements employee.Store and allocation.Store on Postgres.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) LoadEmployees(ctx context.Context) []employee.Employee {
	rows, err := s.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY seq`)
	if err != nil {
		s.logger.Warn("load employees failed, treating as empty", "error", err)
		return []employee.Employee{}
	}
	defer rows.Close()

	out := []employee.Employee{}
	for rows.Next() {
		var emp employee.Employee
		var doj, created time.Time
		if err := rows.Scan(&emp.EmployeeID, &emp.Name, &emp.Email, &emp.Phone, &emp.Designation, &emp.Department,
			&doj, &emp.Location, &emp.ExperienceYears, &emp.Skills, &emp.SkillsCount, &created); err != nil {
			s.logger.Warn("scan employee failed, treating as empty", "error", err)
			return []employee.Employee{}
		}
		emp.DateOfJoining = doj.Format(employee.DateLayout)
		emp.CreatedAt = employee.NewTimestamp(created)
		out = append(out, emp)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("load employees failed, treating as empty", "error", err)
		return []employee.Employee{}
	}
	return out
}

func (s *Store) AppendEmployee(ctx context.Context, emp employee.Employee) error {
	doj, err := parseDate(emp.DateOfJoining)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		emp.EmployeeID, emp.Name, emp.Email, emp.Phone, emp.Designation, emp.Department,
		doj, emp.Location, emp.ExperienceYears, skillsArg(emp.Skills), emp.SkillsCount, emp.CreatedAt.Time)
	return err
}

func (s *Store) LoadAllocations(ctx context.Context) []allocation.Allocation {
	rows, err := s.pool.Query(ctx, `SELECT `+employeeColumns+`, project_name, start_date, end_date, allocation, allocated_at
		FROM project_allocations ORDER BY seq`)
	if err != nil {
		s.logger.Warn("load allocations failed, treating as empty", "error", err)
		return []allocation.Allocation{}
	}
	defer rows.Close()

	out := []allocation.Allocation{}
	for rows.Next() {
		var rec allocation.Allocation
		var doj, start, end, created, allocated time.Time
		if err := rows.Scan(&rec.EmployeeID, &rec.Name, &rec.Email, &rec.Phone, &rec.Designation, &rec.Department,
			&doj, &rec.Location, &rec.ExperienceYears, &rec.Skills, &rec.SkillsCount, &created,
			&rec.ProjectName, &start, &end, &rec.Allocation, &allocated); err != nil {
			s.logger.Warn("scan allocation failed, treating as empty", "error", err)
			return []allocation.Allocation{}
		}
		rec.DateOfJoining = doj.Format(employee.DateLayout)
		rec.StartDate = start.Format(employee.DateLayout)
		rec.EndDate = end.Format(employee.DateLayout)
		rec.CreatedAt = employee.NewTimestamp(created)
		rec.AllocatedAt = employee.NewTimestamp(allocated)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("load allocations failed, treating as empty", "error", err)
		return []allocation.Allocation{}
	}
	return out
}

func (s *Store) AppendAllocation(ctx context.Context, rec allocation.Allocation) error {
	return s.AppendAllocations(ctx, []allocation.Allocation{rec})
}

// AppendAllocations inserts recs in one transaction. The table is locked
// against concurrent writers and each employee's total is checked again so
// that several server processes sharing one database keep the cap.
func (s *Store) AppendAllocations(ctx context.Context, recs []allocation.Allocation) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE project_allocations IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return err
	}

	adding := make(map[string]int)
	names := make(map[string]string)
	for _, rec := range recs {
		adding[rec.EmployeeID] += rec.Allocation
		names[rec.EmployeeID] = rec.Name
	}
	for employeeID, pct := range adding {
		var current int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(allocation), 0) FROM project_allocations WHERE employee_id = $1`,
			employeeID).Scan(&current); err != nil {
			return err
		}
		if current+pct > allocation.MaxCapacity {
			return &allocation.CapacityError{EmployeeID: employeeID, Name: names[employeeID], Current: current, Requested: pct}
		}
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		doj, err := parseDate(rec.DateOfJoining)
		if err != nil {
			return err
		}
		start, err := parseDate(rec.StartDate)
		if err != nil {
			return err
		}
		end, err := parseDate(rec.EndDate)
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO project_allocations (`+employeeColumns+`, project_name, start_date, end_date, allocation, allocated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			rec.EmployeeID, rec.Name, rec.Email, rec.Phone, rec.Designation, rec.Department,
			doj, rec.Location, rec.ExperienceYears, skillsArg(rec.Skills), rec.SkillsCount, rec.CreatedAt.Time,
			rec.ProjectName, start, end, rec.Allocation, rec.AllocatedAt.Time)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(employee.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return parsed, nil
}

func skillsArg(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
