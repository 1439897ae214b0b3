package refine

import (
	"fmt"
	"regexp"
	"strconv"
)

// gradePattern captures the integer sitting immediately before "out of 100".
// Anchoring the capture to the denominator keeps the literal "100" from ever
// being read as the grade.
var gradePattern = regexp.MustCompile(`(-?\d{1,3})\s*out\s*of\s*100`)

// GradeParseError reports a grading response with no recognizable grade.
type GradeParseError struct {
	Text string
}

func (e *GradeParseError) Error() string {
	return fmt.Sprintf("could not extract a grade from the response: %q", e.Text)
}

// ExtractGrade pulls the grade integer out of a grading response. Any parsed
// integer is accepted verbatim; the documented [-100, 100] range is not
// enforced.
func ExtractGrade(text string) (int, error) {
	m := gradePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, &GradeParseError{Text: text}
	}
	grade, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &GradeParseError{Text: text}
	}
	return grade, nil
}
