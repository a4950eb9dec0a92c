package models

import "time"

// Rule codes understood by the constraint engine. Records carrying any other
// code are preserved in storage but ignored at evaluation time.
const (
	RuleCodeTeacherBarredFromSubject = "TEACHER_BARRED_FROM_SUBJECT"
	RuleCodeSubjectPinnedToRoom      = "SUBJECT_PINNED_TO_ROOM"
	RuleCodeProgramDayShiftBlackout  = "PROGRAM_DAY_SHIFT_BLACKOUT"
	RuleCodeMaxDailyTeacherHours     = "MAX_DAILY_TEACHER_HOURS"
	RuleCodePreferSubjectRoom        = "PREFER_SUBJECT_ROOM"
)

// Application scope tags for constraint rules.
const (
	RuleScopeGlobal          = "GLOBAL"
	RuleScopeTeacher         = "TEACHER"
	RuleScopeSubject         = "SUBJECT"
	RuleScopeTeacherSubject  = "TEACHER_SUBJECT"
	RuleScopeProgramDayShift = "PROGRAM_DAY_SHIFT"
)

// ConstraintRule is an operator-entered scheduling rule as stored. The engine
// decodes these records into typed rule variants at snapshot load.
type ConstraintRule struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	AppliesTo string    `db:"applies_to" json:"applies_to"`
	Entity1   *string   `db:"entity_id_1" json:"entity_id_1,omitempty"`
	Entity2   *string   `db:"entity_id_2" json:"entity_id_2,omitempty"`
	Param     string    `db:"param" json:"param"`
	Active    bool      `db:"active" json:"active"`
	PeriodID  *string   `db:"period_id" json:"period_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
