package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/internal/dto"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/repository"
	pkgerrors "github.com/Iamanointing/mvv/pkg/errors"
)

var (
	ErrStudentExists = errors.New("student already exists")
)

// RosterService manages the eligibility roster and lists registered voters.
type RosterService interface {
	ListStudents(ctx context.Context) ([]model.Student, error)
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) error
	// BulkCreate inserts students, silently skipping reg numbers already on
	// the roster, and returns the number inserted.
	BulkCreate(ctx context.Context, req *dto.BulkStudentsRequest) (int64, error)
	ParseImportFile(reader io.Reader) ([]ImportStudentRow, error)
	ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// ImportStudentRow is one parsed spreadsheet row. Row is 1-based as shown
// in spreadsheet software.
type ImportStudentRow struct {
	Row        int
	RegNumber  string
	FullName   string
	Level      string
	Department string
	Email      string
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService creates a RosterService.
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

// ────────────────────── Students ──────────────────────

func (s *rosterService) ListStudents(ctx context.Context) ([]model.Student, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, err
	}
	return nonNil(students), nil
}

func (s *rosterService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) error {
	student := toStudent(req)
	if err := s.repo.Student.Create(ctx, &student); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return ErrStudentExists
		}
		s.logger.Error("create student failed", zap.String("reg_number", req.RegNumber), zap.Error(err))
		return err
	}
	return nil
}

func (s *rosterService) BulkCreate(ctx context.Context, req *dto.BulkStudentsRequest) (int64, error) {
	students := make([]model.Student, 0, len(req.Students))
	for i := range req.Students {
		students = append(students, toStudent(&req.Students[i]))
	}

	inserted, err := s.repo.Student.CreateIgnoreDuplicates(ctx, students)
	if err != nil {
		s.logger.Error("bulk insert students failed", zap.Int("count", len(students)), zap.Error(err))
		return 0, err
	}
	s.logger.Info("students uploaded", zap.Int("submitted", len(students)), zap.Int64("inserted", inserted))
	return inserted, nil
}

func (s *rosterService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, err
	}
	return nonNil(users), nil
}

func toStudent(req *dto.CreateStudentRequest) model.Student {
	return model.Student{
		RegNumber:  strings.TrimSpace(req.RegNumber),
		FullName:   strings.TrimSpace(req.FullName),
		Level:      strings.TrimSpace(req.Level),
		Department: strings.TrimSpace(req.Department),
		Email:      optional(strings.TrimSpace(req.Email)),
	}
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 5000

var (
	ErrImportUnreadable  = errors.New("read spreadsheet")
	ErrImportNoData      = errors.New("spreadsheet has no data rows")
	ErrImportTooManyRows = fmt.Errorf("spreadsheet exceeds %d rows", maxImportRows)
	ErrImportBadHeader   = errors.New("spreadsheet header is missing required columns")
)

func (s *rosterService) ParseImportFile(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		s.logger.Warn("open spreadsheet failed", zap.Error(err))
		return nil, ErrImportUnreadable
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		s.logger.Warn("read sheet failed", zap.Error(err))
		return nil, ErrImportUnreadable
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(excelRows[0])
	if col["reg_number"] < 0 || col["full_name"] < 0 || col["level"] < 0 || col["department"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := col[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportStudentRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		item := ImportStudentRow{
			Row:        i + 1,
			RegNumber:  cell(r, "reg_number"),
			FullName:   cell(r, "full_name"),
			Level:      cell(r, "level"),
			Department: cell(r, "department"),
			Email:      cell(r, "email"),
		}
		if item.RegNumber == "" && item.FullName == "" && item.Level == "" && item.Department == "" && item.Email == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex maps canonical column names to their index, -1 when absent.
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"reg_number": -1,
		"full_name":  -1,
		"level":      -1,
		"department": -1,
		"email":      -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.NewReplacer(" ", "_", ".", "").Replace(key)
		switch key {
		case "reg_number", "regnumber", "reg_no", "registration_number", "matric_number":
			idx["reg_number"] = i
		case "full_name", "fullname", "name":
			idx["full_name"] = i
		case "level":
			idx["level"] = i
		case "department", "dept":
			idx["department"] = i
		case "email", "email_address":
			idx["email"] = i
		}
	}
	return idx
}

// ────────────────────── ImportStudents ──────────────────────

func (s *rosterService) ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error) {
	resp := &dto.ImportStudentsResponse{Total: len(rows), Errors: []dto.ImportRowError{}}

	seen := make(map[string]int, len(rows))
	valid := make([]model.Student, 0, len(rows))
	for _, r := range rows {
		switch {
		case r.RegNumber == "":
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: r.Row, Reason: "reg_number is empty"})
			continue
		case r.FullName == "":
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: r.Row, Reason: "full_name is empty"})
			continue
		case r.Level == "":
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: r.Row, Reason: "level is empty"})
			continue
		case r.Department == "":
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: r.Row, Reason: "department is empty"})
			continue
		}
		if first, dup := seen[r.RegNumber]; dup {
			resp.Errors = append(resp.Errors, dto.ImportRowError{
				Row:    r.Row,
				Reason: fmt.Sprintf("reg_number duplicates row %d", first),
			})
			continue
		}
		seen[r.RegNumber] = r.Row

		valid = append(valid, model.Student{
			RegNumber:  r.RegNumber,
			FullName:   r.FullName,
			Level:      r.Level,
			Department: r.Department,
			Email:      optional(r.Email),
		})
	}

	inserted, err := s.repo.Student.CreateIgnoreDuplicates(ctx, valid)
	if err != nil {
		s.logger.Error("import students failed", zap.Int("rows", len(valid)), zap.Error(err))
		return nil, err
	}

	resp.Inserted = int(inserted)
	resp.Skipped = resp.Total - resp.Inserted
	s.logger.Info("students imported",
		zap.Int("total", resp.Total),
		zap.Int("inserted", resp.Inserted),
		zap.Int("rejected", len(resp.Errors)),
	)
	return resp, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
