package fieldrules

import (
	"fmt"

	"github.com/madrichim/leadhub/internal/app/system/dates"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// Form sections. Each save request names the section it owns; change
// detection is scoped to that section's fields and its processor applies
// that section's rules.
const (
	SectionPersonal    = "personal"
	SectionNationality = "nationality"
	SectionReligious   = "religious"
	SectionArmy        = "army"
	SectionStatus      = "status"
	SectionActivity    = "activity"
)

// PersonalFields has no blanking rules; the section exists so personal edits
// stay scoped like every other section.
var personalFields = []string{
	models.FieldFirstName,
	models.FieldLastName,
	models.FieldEmail,
	models.FieldPhone,
	models.FieldWhatsApp,
	models.FieldBirthDate,
	models.FieldGender,
	models.FieldCity,
	models.FieldCountry,
	models.FieldAddress,
	models.FieldEducationLevel,
	models.FieldStudyField,
	models.FieldNotes,
}

var nationalityFields = []string{
	models.FieldNationalityCount,
	models.FieldNationality1,
	models.FieldPassport1,
	models.FieldNationality2,
	models.FieldPassport2,
	models.FieldNationality3,
	models.FieldPassport3,
	models.FieldResidencyStatus,
	models.FieldAlyahYear,
	models.FieldHasIsraeliID,
	models.FieldIsraeliID,
}

var religiousFields = []string{
	models.FieldReligiousLevel,
	models.FieldConversionStatus,
	models.FieldConversionDate,
	models.FieldConversionAgency,
}

var armyFields = []string{
	models.FieldServiceType,
	models.FieldMahalPath,
	models.FieldStudyPath,
	models.FieldTsavRishonStatus,
	models.FieldRecruitmentCenter,
	models.FieldTsavRishonDate,
	models.FieldGradesReceived,
	models.FieldDaparScore,
	models.FieldMedicalProfile,
	models.FieldHebrewScore,
	models.FieldYomHameaStatus,
	models.FieldYomHameaDate,
	models.FieldYomSayerotStatus,
	models.FieldYomSayerotDate,
	models.FieldArmyEntryStatus,
	models.FieldEnlistmentDate,
	models.FieldMichveAlon,
	models.FieldRecruitmentCohort,
	models.FieldRecruitmentTrack,
}

var statusFields = []string{
	models.FieldCandidateStatus,
	models.FieldCurrentStatus,
}

var activityFields = []string{
	models.FieldProgramParticipation,
	models.FieldProgramName,
	models.FieldMentorName,
	models.FieldLastContactDate,
}

// Per-section blanking rules. DECLARED ORDER IS SIGNIFICANT: later rules may
// depend on blanks produced by earlier rules in the same pass (the tsav
// rishon rule blanks grades_received, which makes the grades rule blank the
// three scores).

var nationalityRules = []Rule{
	{
		Governing:  models.FieldNationalityCount,
		Keep:       noneOf("1"),
		Dependents: []string{models.FieldNationality2, models.FieldPassport2, models.FieldNationality3, models.FieldPassport3},
	},
	{
		Governing:  models.FieldNationalityCount,
		Keep:       noneOf("1", "2"),
		Dependents: []string{models.FieldNationality3, models.FieldPassport3},
	},
	{
		Governing:  models.FieldResidencyStatus,
		Keep:       oneOf(ResidencyOleHadash, ResidencyKatinHozer, ResidencyTochavHozer),
		Dependents: []string{models.FieldAlyahYear},
	},
	{
		Governing:  models.FieldResidencyStatus,
		Keep:       oneOf(ResidencyOleHadash, ResidencyKatinHozer, ResidencyTochavHozer, ResidencyBenMeager),
		Dependents: []string{models.FieldHasIsraeliID},
	},
	{
		Governing:  models.FieldHasIsraeliID,
		Keep:       equals(Yes),
		Dependents: []string{models.FieldIsraeliID},
	},
}

var religiousRules = []Rule{
	{
		Governing:  models.FieldConversionStatus,
		Keep:       equals(Converted),
		Dependents: []string{models.FieldConversionDate, models.FieldConversionAgency},
	},
}

var statusRules = []Rule{
	{
		Governing:  models.FieldCandidateStatus,
		Keep:       noneOf(CandidateNoResponse, CandidateOutOfScope),
		Dependents: []string{models.FieldCurrentStatus},
	},
	{
		Governing:  models.FieldCurrentStatus,
		Keep:       noneOf(StatusAbandonBefore, StatusMedicalExemption, StatusReligiousExemption, StatusOtherExemption),
		Dependents: []string{models.FieldArmyEntryStatus, models.FieldEnlistmentDate},
	},
}

var armyRules = []Rule{
	{
		Governing:  models.FieldServiceType,
		Keep:       equals(ServiceMahal),
		Dependents: []string{models.FieldMahalPath},
	},
	{
		Governing:  models.FieldServiceType,
		Keep:       equals(ServiceStudies),
		Dependents: []string{models.FieldStudyPath},
	},
	{
		Governing:  models.FieldTsavRishonStatus,
		Keep:       equals(Yes),
		Dependents: []string{models.FieldRecruitmentCenter, models.FieldTsavRishonDate, models.FieldGradesReceived},
	},
	{
		Governing:  models.FieldGradesReceived,
		Keep:       equals(Yes),
		Dependents: []string{models.FieldDaparScore, models.FieldMedicalProfile, models.FieldHebrewScore},
	},
	{
		Governing:  models.FieldYomHameaStatus,
		Keep:       equals(Yes),
		Dependents: []string{models.FieldYomHameaDate},
	},
	{
		Governing:  models.FieldYomSayerotStatus,
		Keep:       equals(Yes),
		Dependents: []string{models.FieldYomSayerotDate},
	},
	{
		Governing:  models.FieldArmyEntryStatus,
		Keep:       equals(Yes),
		Dependents: []string{models.FieldEnlistmentDate, models.FieldMichveAlon},
	},
}

type section struct {
	fields []string
	rules  []Rule
	// derive recomputes the derived labels; only the army section (and the
	// full Normalize) carries it.
	derive bool
}

var sections = map[string]section{
	SectionPersonal:    {fields: personalFields},
	SectionNationality: {fields: nationalityFields, rules: nationalityRules},
	SectionReligious:   {fields: religiousFields, rules: religiousRules},
	SectionArmy:        {fields: armyFields, rules: armyRules, derive: true},
	SectionStatus:      {fields: statusFields, rules: statusRules},
	SectionActivity:    {fields: activityFields},
}

// SectionFields returns the ordered field list a form section owns.
func SectionFields(name string) ([]string, error) {
	s, ok := sections[name]
	if !ok {
		return nil, fmt.Errorf("unknown form section %q", name)
	}
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out, nil
}

// SectionProcessor returns the transform for one form section: date
// normalization, that section's blanking rules, and (for the army section)
// the derived labels. The processor never mutates its input.
func SectionProcessor(name string) (func(map[string]string) map[string]string, error) {
	s, ok := sections[name]
	if !ok {
		return nil, fmt.Errorf("unknown form section %q", name)
	}
	rules := s.rules
	derive := s.derive
	return func(rec map[string]string) map[string]string {
		out := normalizeDates(rec)
		out = Apply(rules, out)
		if derive {
			deriveLabels(out)
		}
		return out
	}, nil
}

// Normalize applies every section's rules in declared order (nationality,
// religious, status, army) over one copy of the record, normalizes date
// fields to storage form, and recomputes the derived labels. It is the
// transform used on full-record writes such as intake and import.
func Normalize(rec map[string]string) map[string]string {
	out := normalizeDates(rec)
	out = Apply(nationalityRules, out)
	out = Apply(religiousRules, out)
	out = Apply(statusRules, out)
	out = Apply(armyRules, out)
	deriveLabels(out)
	return out
}

func normalizeDates(rec map[string]string) map[string]string {
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, f := range models.LeadDateFields {
		if v, ok := out[f]; ok {
			out[f] = dates.NormalizeStorage(v)
		}
	}
	return out
}

func deriveLabels(rec map[string]string) {
	rec[models.FieldRecruitmentCohort] = CohortLabel(rec[models.FieldEnlistmentDate])
	rec[models.FieldRecruitmentTrack] = TrackLabel(
		rec[models.FieldEnlistmentDate],
		rec[models.FieldMahalPath],
		rec[models.FieldCurrentStatus],
		rec[models.FieldServiceType],
	)
}
