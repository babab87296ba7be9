package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/stemsi/survey-analytics/internal/model"
)

var (
	ErrFileNotFound = errors.New("csv file not found")
	ErrEmptyFile    = errors.New("csv file is empty")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MissingColumnsError reports required headers absent from the file.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("csv missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Row is one successfully parsed survey record.
type Row struct {
	Line           int
	DepartmentName string
	HobbyName      string
	Student        model.Student
}

// RowError is a record that was skipped. Line counts the header as line 1.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("Line %d: %v", e.Line, e.Err)
}

// Parsed is the outcome of reading a survey file.
type Parsed struct {
	RowsRead int
	Rows     []Row
	Errors   []RowError
}

// ReadFile parses the survey CSV at path.
func ReadFile(path string) (*Parsed, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat csv: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	return Parse(f)
}

// Parse reads survey records from r. Header problems are fatal; record
// problems are collected as RowErrors.
func Parse(r io.Reader) (*Parsed, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	out := &Parsed{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		out.RowsRead++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				out.Errors = append(out.Errors, RowError{Line: line, Err: pe.Err})
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}

		row, err := parseRecord(record{values: rec, index: index})
		if err != nil {
			out.Errors = append(out.Errors, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

type record struct {
	values []string
	index  map[string]int
}

func (r record) get(col string) (string, error) {
	i := r.index[col]
	if i >= len(r.values) {
		return "", fmt.Errorf("missing value for %q", col)
	}
	return NormalizeCell(r.values[i]), nil
}

// recordParser accumulates the first error so parseRecord reads linearly.
type recordParser struct {
	rec record
	err error
}

func (p *recordParser) cell(col string) string {
	if p.err != nil {
		return ""
	}
	v, err := p.rec.get(col)
	if err != nil {
		p.err = err
	}
	return v
}

func (p *recordParser) check(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

func parseRecord(rec record) (Row, error) {
	p := &recordParser{rec: rec}
	var row Row
	s := &row.Student
	m := &model.StudentMetrics{}
	s.Metrics = m

	row.DepartmentName = p.cell(colDepartment)
	p.check(checkLookupName("department", row.DepartmentName))
	row.HobbyName = p.cell(colHobby)
	p.check(checkLookupName("hobby", row.HobbyName))

	var err error
	s.Gender, err = mapGender(p.cell(colGender))
	p.check(err)
	s.HeightCM, err = parseRoundedInt("height_cm", p.cell(colHeight), model.HeightMinCM, model.HeightMaxCM)
	p.check(err)
	s.WeightKG, err = parseRoundedInt("weight_kg", p.cell(colWeight), model.WeightMinKG, model.WeightMaxKG)
	p.check(err)

	m.CertificationCourse, err = parseBool("certification_course", p.cell(colCertification))
	p.check(err)
	m.Mark10th, err = parseMark("mark_10th", p.cell(colMark10th))
	p.check(err)
	m.Mark12th, err = parseMark("mark_12th", p.cell(colMark12th))
	p.check(err)
	m.CollegeMark, err = parseMark("college_mark", p.cell(colCollegeMark))
	p.check(err)
	m.DailyStudyingTime, err = mapDailyStudyTime(p.cell(colStudyTime))
	p.check(err)
	m.PreferToStudyIn, err = mapStudyPreference(p.cell(colPreference))
	p.check(err)
	m.SalaryExpectation, err = parseSalary(p.cell(colSalary))
	p.check(err)
	m.LikesDegree, err = parseBool("likes_degree", p.cell(colLikesDegree))
	p.check(err)
	m.WillingnessPercent, err = parsePercent(p.cell(colWillingness))
	p.check(err)
	m.SocialMediaVideo, err = mapMediaVideoTime(p.cell(colMediaVideo))
	p.check(err)
	m.TravellingTime, err = mapTravelingTime(p.cell(colTravelling))
	p.check(err)
	m.StressLevel, err = mapStressLevel(p.cell(colStress))
	p.check(err)
	m.FinancialStatus, err = mapFinancialStatus(p.cell(colFinancial))
	p.check(err)
	m.PartTimeJob, err = parseBool("part_time_job", p.cell(colPartTime))
	p.check(err)

	if p.err != nil {
		return Row{}, p.err
	}
	m.DeriveMinutes()
	return row, nil
}

func checkLookupName(field, name string) error {
	if !model.ValidLookupName(name) {
		return fmt.Errorf("invalid %s name %q: must be 2-100 characters", field, name)
	}
	return nil
}

func parseBool(field, raw string) (bool, error) {
	v, ok := model.ParseFlag(raw)
	if !ok {
		return false, fmt.Errorf("invalid boolean for %s: %q", field, raw)
	}
	return v, nil
}

func parseFinite(field, raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number for %s: %q", field, raw)
	}
	return f, nil
}

// parseRoundedInt rounds half to even before the range check, so 250.5
// becomes 250.
func parseRoundedInt(field, raw string, lo, hi int) (int, error) {
	f, err := parseFinite(field, raw)
	if err != nil {
		return 0, err
	}
	n := int(math.RoundToEven(f))
	if n < lo || n > hi {
		return 0, fmt.Errorf("unrealistic %s: %q -> %d", field, raw, n)
	}
	return n, nil
}

func parseMark(field, raw string) (float64, error) {
	f, err := parseFinite(field, raw)
	if err != nil {
		return 0, err
	}
	if f < model.MarkMin || f > model.MarkMax {
		return 0, fmt.Errorf("%s out of range 0-100: %q", field, raw)
	}
	return f, nil
}

func parseSalary(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number for salary_expectation: %q", raw)
	}
	if n < 0 || n > model.SalaryMax {
		return 0, fmt.Errorf("salary_expectation out of range: %d", n)
	}
	return n, nil
}

// parsePercent accepts values like "70%" and truncates fractions.
func parsePercent(raw string) (int, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	f, err := parseFinite("willingness_percent", s)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if n < 0 || n > model.PercentMax {
		return 0, fmt.Errorf("willingness_percent out of range 0-100: %q", raw)
	}
	return n, nil
}
