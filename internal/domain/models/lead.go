package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead is a tracked candidate moving through the enlistment process.
// Almost every field is an optional string: categorical values, grades kept
// as strings, and ISO dates in storage form (yyyy-MM-dd). Fields whose
// relevance depends on another field (a governing field) are kept empty when
// the governing value does not justify them; the fieldrules package enforces
// that invariant on every write path.
type Lead struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// Personal / contact
	FirstName      string `bson:"first_name" json:"first_name"`
	LastName       string `bson:"last_name" json:"last_name"`
	FirstNameCI    string `bson:"first_name_ci" json:"-"`
	LastNameCI     string `bson:"last_name_ci" json:"-"`
	Email          string `bson:"email" json:"email"`
	Phone          string `bson:"phone" json:"phone"`
	WhatsApp       string `bson:"whatsapp" json:"whatsapp"`
	BirthDate      string `bson:"birth_date" json:"birth_date"`
	Gender         string `bson:"gender" json:"gender"`
	City           string `bson:"city" json:"city"`
	Country        string `bson:"country" json:"country"`
	Address        string `bson:"address" json:"address"`
	EducationLevel string `bson:"education_level" json:"education_level"`
	StudyField     string `bson:"study_field" json:"study_field"`
	Notes          string `bson:"notes" json:"notes"`

	// Nationality / residency
	NationalityCount string `bson:"nationality_count" json:"nationality_count"`
	Nationality1     string `bson:"nationality_1" json:"nationality_1"`
	Passport1        string `bson:"passport_1" json:"passport_1"`
	Nationality2     string `bson:"nationality_2" json:"nationality_2"`
	Passport2        string `bson:"passport_2" json:"passport_2"`
	Nationality3     string `bson:"nationality_3" json:"nationality_3"`
	Passport3        string `bson:"passport_3" json:"passport_3"`
	ResidencyStatus  string `bson:"residency_status" json:"residency_status"`
	AlyahYear        string `bson:"alyah_year" json:"alyah_year"`
	HasIsraeliID     string `bson:"has_israeli_id" json:"has_israeli_id"`
	IsraeliID        string `bson:"israeli_id" json:"israeli_id"`

	// Religious
	ReligiousLevel   string `bson:"religious_level" json:"religious_level"`
	ConversionStatus string `bson:"conversion_status" json:"conversion_status"`
	ConversionDate   string `bson:"conversion_date" json:"conversion_date"`
	ConversionAgency string `bson:"conversion_agency" json:"conversion_agency"`

	// Army process
	ServiceType       string `bson:"service_type" json:"service_type"`
	MahalPath         string `bson:"mahal_path" json:"mahal_path"`
	StudyPath         string `bson:"study_path" json:"study_path"`
	TsavRishonStatus  string `bson:"tsav_rishon_status" json:"tsav_rishon_status"`
	RecruitmentCenter string `bson:"recruitment_center" json:"recruitment_center"`
	TsavRishonDate    string `bson:"tsav_rishon_date" json:"tsav_rishon_date"`
	GradesReceived    string `bson:"grades_received" json:"grades_received"`
	DaparScore        string `bson:"dapar_score" json:"dapar_score"`
	MedicalProfile    string `bson:"medical_profile" json:"medical_profile"`
	HebrewScore       string `bson:"hebrew_score" json:"hebrew_score"`
	YomHameaStatus    string `bson:"yom_hamea_status" json:"yom_hamea_status"`
	YomHameaDate      string `bson:"yom_hamea_date" json:"yom_hamea_date"`
	YomSayerotStatus  string `bson:"yom_sayerot_status" json:"yom_sayerot_status"`
	YomSayerotDate    string `bson:"yom_sayerot_date" json:"yom_sayerot_date"`
	ArmyEntryStatus   string `bson:"army_entry_status" json:"army_entry_status"`
	EnlistmentDate    string `bson:"enlistment_date" json:"enlistment_date"`
	MichveAlon        string `bson:"michve_alon" json:"michve_alon"`

	// Derived, read-only in the UI
	RecruitmentCohort string `bson:"recruitment_cohort" json:"recruitment_cohort"`
	RecruitmentTrack  string `bson:"recruitment_track" json:"recruitment_track"`

	// Follow-up status
	CandidateStatus string `bson:"candidate_status" json:"candidate_status"`
	CurrentStatus   string `bson:"current_status" json:"current_status"`

	// Activities / follow-up
	ProgramParticipation string `bson:"program_participation" json:"program_participation"`
	ProgramName          string `bson:"program_name" json:"program_name"`
	MentorName           string `bson:"mentor_name" json:"mentor_name"`
	LastContactDate      string `bson:"last_contact_date" json:"last_contact_date"`

	ImportBatchID string `bson:"import_batch_id,omitempty" json:"import_batch_id,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Lead field names, as stored in Mongo and as referenced by change requests
// and field rules.
const (
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldWhatsApp       = "whatsapp"
	FieldBirthDate      = "birth_date"
	FieldGender         = "gender"
	FieldCity           = "city"
	FieldCountry        = "country"
	FieldAddress        = "address"
	FieldEducationLevel = "education_level"
	FieldStudyField     = "study_field"
	FieldNotes          = "notes"

	FieldNationalityCount = "nationality_count"
	FieldNationality1     = "nationality_1"
	FieldPassport1        = "passport_1"
	FieldNationality2     = "nationality_2"
	FieldPassport2        = "passport_2"
	FieldNationality3     = "nationality_3"
	FieldPassport3        = "passport_3"
	FieldResidencyStatus  = "residency_status"
	FieldAlyahYear        = "alyah_year"
	FieldHasIsraeliID     = "has_israeli_id"
	FieldIsraeliID        = "israeli_id"

	FieldReligiousLevel   = "religious_level"
	FieldConversionStatus = "conversion_status"
	FieldConversionDate   = "conversion_date"
	FieldConversionAgency = "conversion_agency"

	FieldServiceType       = "service_type"
	FieldMahalPath         = "mahal_path"
	FieldStudyPath         = "study_path"
	FieldTsavRishonStatus  = "tsav_rishon_status"
	FieldRecruitmentCenter = "recruitment_center"
	FieldTsavRishonDate    = "tsav_rishon_date"
	FieldGradesReceived    = "grades_received"
	FieldDaparScore        = "dapar_score"
	FieldMedicalProfile    = "medical_profile"
	FieldHebrewScore       = "hebrew_score"
	FieldYomHameaStatus    = "yom_hamea_status"
	FieldYomHameaDate      = "yom_hamea_date"
	FieldYomSayerotStatus  = "yom_sayerot_status"
	FieldYomSayerotDate    = "yom_sayerot_date"
	FieldArmyEntryStatus   = "army_entry_status"
	FieldEnlistmentDate    = "enlistment_date"
	FieldMichveAlon        = "michve_alon"

	FieldRecruitmentCohort = "recruitment_cohort"
	FieldRecruitmentTrack  = "recruitment_track"

	FieldCandidateStatus = "candidate_status"
	FieldCurrentStatus   = "current_status"

	FieldProgramParticipation = "program_participation"
	FieldProgramName          = "program_name"
	FieldMentorName           = "mentor_name"
	FieldLastContactDate      = "last_contact_date"
)

// fieldPtrs maps every tracked field name to its struct field.
// Identity, CI, and timestamp fields are deliberately absent: they are not
// editable through the form/change-request path.
func (l *Lead) fieldPtrs() map[string]*string {
	return map[string]*string{
		FieldFirstName:      &l.FirstName,
		FieldLastName:       &l.LastName,
		FieldEmail:          &l.Email,
		FieldPhone:          &l.Phone,
		FieldWhatsApp:       &l.WhatsApp,
		FieldBirthDate:      &l.BirthDate,
		FieldGender:         &l.Gender,
		FieldCity:           &l.City,
		FieldCountry:        &l.Country,
		FieldAddress:        &l.Address,
		FieldEducationLevel: &l.EducationLevel,
		FieldStudyField:     &l.StudyField,
		FieldNotes:          &l.Notes,

		FieldNationalityCount: &l.NationalityCount,
		FieldNationality1:     &l.Nationality1,
		FieldPassport1:        &l.Passport1,
		FieldNationality2:     &l.Nationality2,
		FieldPassport2:        &l.Passport2,
		FieldNationality3:     &l.Nationality3,
		FieldPassport3:        &l.Passport3,
		FieldResidencyStatus:  &l.ResidencyStatus,
		FieldAlyahYear:        &l.AlyahYear,
		FieldHasIsraeliID:     &l.HasIsraeliID,
		FieldIsraeliID:        &l.IsraeliID,

		FieldReligiousLevel:   &l.ReligiousLevel,
		FieldConversionStatus: &l.ConversionStatus,
		FieldConversionDate:   &l.ConversionDate,
		FieldConversionAgency: &l.ConversionAgency,

		FieldServiceType:       &l.ServiceType,
		FieldMahalPath:         &l.MahalPath,
		FieldStudyPath:         &l.StudyPath,
		FieldTsavRishonStatus:  &l.TsavRishonStatus,
		FieldRecruitmentCenter: &l.RecruitmentCenter,
		FieldTsavRishonDate:    &l.TsavRishonDate,
		FieldGradesReceived:    &l.GradesReceived,
		FieldDaparScore:        &l.DaparScore,
		FieldMedicalProfile:    &l.MedicalProfile,
		FieldHebrewScore:       &l.HebrewScore,
		FieldYomHameaStatus:    &l.YomHameaStatus,
		FieldYomHameaDate:      &l.YomHameaDate,
		FieldYomSayerotStatus:  &l.YomSayerotStatus,
		FieldYomSayerotDate:    &l.YomSayerotDate,
		FieldArmyEntryStatus:   &l.ArmyEntryStatus,
		FieldEnlistmentDate:    &l.EnlistmentDate,
		FieldMichveAlon:        &l.MichveAlon,

		FieldRecruitmentCohort: &l.RecruitmentCohort,
		FieldRecruitmentTrack:  &l.RecruitmentTrack,

		FieldCandidateStatus: &l.CandidateStatus,
		FieldCurrentStatus:   &l.CurrentStatus,

		FieldProgramParticipation: &l.ProgramParticipation,
		FieldProgramName:          &l.ProgramName,
		FieldMentorName:           &l.MentorName,
		FieldLastContactDate:      &l.LastContactDate,
	}
}

// FieldMap returns a snapshot of all tracked fields as field name → value.
func (l *Lead) FieldMap() map[string]string {
	ptrs := l.fieldPtrs()
	out := make(map[string]string, len(ptrs))
	for name, p := range ptrs {
		out[name] = *p
	}
	return out
}

// ApplyFields copies values for known field names into the Lead.
// Unknown names are ignored.
func (l *Lead) ApplyFields(m map[string]string) {
	ptrs := l.fieldPtrs()
	for name, v := range m {
		if p, ok := ptrs[name]; ok {
			*p = v
		}
	}
}

// IsLeadField reports whether name is a tracked, editable lead field.
func IsLeadField(name string) bool {
	var l Lead
	_, ok := l.fieldPtrs()[name]
	return ok
}

// LeadFieldNames returns every tracked field name, sorted.
func LeadFieldNames() []string {
	var l Lead
	ptrs := l.fieldPtrs()
	names := make([]string, 0, len(ptrs))
	for n := range ptrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LeadDateFields lists the tracked fields holding storage-form dates.
var LeadDateFields = []string{
	FieldBirthDate,
	FieldConversionDate,
	FieldTsavRishonDate,
	FieldYomHameaDate,
	FieldYomSayerotDate,
	FieldEnlistmentDate,
	FieldLastContactDate,
}
