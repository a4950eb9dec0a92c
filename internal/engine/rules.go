package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acadplan/timetable-api/internal/models"
)

// RuleKind enumerates the rule variants the engine understands.
type RuleKind int

const (
	// RuleUnknown is decoded from any unrecognised code and never matches.
	RuleUnknown RuleKind = iota
	RuleTeacherBarredFromSubject
	RuleSubjectPinnedToRoom
	RuleProgramDayShiftBlackout
	RuleMaxDailyTeacherHours
	RulePreferSubjectRoom
)

// Rule is a constraint record decoded into its typed variant. Only the fields
// relevant to the variant are populated.
type Rule struct {
	Kind      RuleKind
	TeacherID string
	SubjectID string
	ProgramID string
	RoomID    string
	Day       int
	Shift     models.Shift
	MaxHours  int
}

// Penalty weights for the soft scorer. Values match the institution's
// long-standing tuning; lower totals win.
const (
	penaltyNegativePreferenceWeight = 10
	penaltyNeutralPreference        = 5
	penaltyPerMissingSeat           = 5
	penaltyOversizedRoom            = 10
	oversizedRoomFactor             = 2.5
	penaltyShiftMismatch            = 20
	penaltyNonPreferredRoom         = 15
)

// DecodeRules converts raw rule records into typed variants. Unrecognised
// codes become RuleUnknown no-ops; records whose parameter cannot be parsed
// for their code are skipped with a warning (rule data is operator-entered
// and may be stale, so this is never fatal).
func DecodeRules(records []models.ConstraintRule) ([]Rule, []string) {
	rules := make([]Rule, 0, len(records))
	var warnings []string

	for _, record := range records {
		switch record.Code {
		case models.RuleCodeTeacherBarredFromSubject:
			if record.Entity1 == nil || record.Entity2 == nil {
				warnings = append(warnings, malformedRule(record, "teacher and subject references required"))
				continue
			}
			rules = append(rules, Rule{
				Kind:      RuleTeacherBarredFromSubject,
				TeacherID: *record.Entity1,
				SubjectID: *record.Entity2,
			})

		case models.RuleCodeSubjectPinnedToRoom:
			if record.Entity1 == nil || record.Param == "" {
				warnings = append(warnings, malformedRule(record, "subject reference and room parameter required"))
				continue
			}
			rules = append(rules, Rule{
				Kind:      RuleSubjectPinnedToRoom,
				SubjectID: *record.Entity1,
				RoomID:    record.Param,
			})

		case models.RuleCodeProgramDayShiftBlackout:
			if record.Entity1 == nil {
				warnings = append(warnings, malformedRule(record, "program reference required"))
				continue
			}
			day, shift, err := parseDayShift(record.Param)
			if err != nil {
				warnings = append(warnings, malformedRule(record, err.Error()))
				continue
			}
			rules = append(rules, Rule{
				Kind:      RuleProgramDayShiftBlackout,
				ProgramID: *record.Entity1,
				Day:       day,
				Shift:     shift,
			})

		case models.RuleCodeMaxDailyTeacherHours:
			hours, err := strconv.Atoi(strings.TrimSpace(record.Param))
			if err != nil || hours <= 0 {
				warnings = append(warnings, malformedRule(record, "parameter must be a positive hour count"))
				continue
			}
			rule := Rule{Kind: RuleMaxDailyTeacherHours, MaxHours: hours}
			if record.AppliesTo == models.RuleScopeTeacher {
				if record.Entity1 == nil {
					warnings = append(warnings, malformedRule(record, "teacher reference required"))
					continue
				}
				rule.TeacherID = *record.Entity1
			}
			rules = append(rules, rule)

		case models.RuleCodePreferSubjectRoom:
			if record.Entity1 == nil || record.Param == "" {
				warnings = append(warnings, malformedRule(record, "subject reference and room parameter required"))
				continue
			}
			rules = append(rules, Rule{
				Kind:      RulePreferSubjectRoom,
				SubjectID: *record.Entity1,
				RoomID:    record.Param,
			})

		default:
			rules = append(rules, Rule{Kind: RuleUnknown})
		}
	}

	return rules, warnings
}

// parseDayShift parses a "<day>-<shift>" parameter, e.g. "5-AFTERNOON".
func parseDayShift(raw string) (int, models.Shift, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("parameter must look like <day>-<shift>")
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 7 {
		return 0, "", fmt.Errorf("day must be between 1 and 7")
	}
	shift := models.Shift(strings.ToUpper(strings.TrimSpace(parts[1])))
	if !shift.Valid() {
		return 0, "", fmt.Errorf("unknown shift %q", parts[1])
	}
	return day, shift, nil
}

func malformedRule(record models.ConstraintRule, reason string) string {
	return fmt.Sprintf("rule %s (%s) skipped: %s", record.ID, record.Code, reason)
}

// satisfiesHard evaluates every hard rule variant against a candidate triple.
// Rules needing an entity that was not supplied are skipped for that call, so
// the same function serves teacher-only and room-only pre-filters as well as
// the full defensive re-check in the search.
func satisfiesHard(rules []Rule, group models.Group, subject models.Subject, teacherID, roomID string, slot models.TimeSlot) bool {
	for _, rule := range rules {
		switch rule.Kind {
		case RuleTeacherBarredFromSubject:
			if teacherID != "" && rule.TeacherID == teacherID && rule.SubjectID == subject.ID {
				return false
			}
		case RuleSubjectPinnedToRoom:
			if roomID != "" && rule.SubjectID == subject.ID && rule.RoomID != roomID {
				return false
			}
		case RuleProgramDayShiftBlackout:
			if rule.ProgramID == group.ProgramID && rule.Day == slot.DayOfWeek && rule.Shift == slot.Shift {
				return false
			}
		}
	}
	return true
}

// penalty sums the independent soft-constraint terms for a candidate triple.
func penalty(snap *Snapshot, group models.Group, subject models.Subject, teacher models.Teacher, room models.Room, slot models.TimeSlot) int {
	total := 0

	preference := snap.Preference(teacher.ID, slot.DayOfWeek, slot.ID)
	switch {
	case preference < 0:
		total += -preference * penaltyNegativePreferenceWeight
	case preference == 0:
		total += penaltyNeutralPreference
	}

	if group.Enrollment > 0 {
		if room.Capacity < group.Enrollment {
			total += (group.Enrollment - room.Capacity) * penaltyPerMissingSeat
		} else if float64(room.Capacity) > float64(group.Enrollment)*oversizedRoomFactor {
			total += penaltyOversizedRoom
		}
	}

	if group.PreferredShift != nil && *group.PreferredShift != slot.Shift {
		total += penaltyShiftMismatch
	}

	for _, rule := range snap.Rules {
		if rule.Kind == RulePreferSubjectRoom && rule.SubjectID == subject.ID && rule.RoomID != room.ID {
			total += penaltyNonPreferredRoom
		}
	}

	return total
}
