package fieldrules

import (
	"fmt"
	"strings"

	"github.com/madrichim/leadhub/internal/app/system/dates"
)

// Categorical values referenced by rules and derivations. These mirror what
// the intake form submits, French labels included.
const (
	Yes = "Oui"
	No  = "Non"

	Converted = "Converti"

	ResidencyOleHadash   = "Olé Hadash"
	ResidencyKatinHozer  = "Katin Hozer"
	ResidencyTochavHozer = "Tochav Hozer"
	ResidencyBenMeager   = "Ben Meager"

	ServiceMahal       = "Mahal"
	ServiceStudies     = "Études"
	ServiceComplete    = "Service complet"
	ServiceGarinTzabar = "Garin Tzabar"
	ServiceHaredi      = "Haredi"
	ServiceVolunteers  = "Volontaires"

	PathNahal  = "Nahal"
	PathHaredi = "Haredi"
	PathHesder = "Hesder"

	CandidateNoResponse = "Sans réponse"
	CandidateOutOfScope = "Hors cadre"

	StatusInProgress         = "En cours"
	StatusAbandonBefore      = "Abandon avant le service"
	StatusMedicalExemption   = "Exemption médicale"
	StatusReligiousExemption = "Exemption religieuse"
	StatusOtherExemption     = "Autre exemption"

	TrackMahal      = "Mahal Nahal / Mahal Haredi"
	TrackOlimHesder = "Olim/Hesder"
)

// CohortLabel derives the recruitment-cohort label from an enlistment date.
// Months 2-5 belong to the March cohort, 6-9 to the August cohort, and
// 10-12 to the November cohort of the same year. January belongs to the
// November cohort of the PREVIOUS year; that boundary is deliberate and must
// not be "fixed".
func CohortLabel(enlistmentDate string) string {
	year, month, ok := dates.YearMonth(enlistmentDate)
	if !ok {
		return ""
	}
	switch {
	case month >= 2 && month <= 5:
		return fmt.Sprintf("Mars %d", year)
	case month >= 6 && month <= 9:
		return fmt.Sprintf("Aout %d", year)
	case month == 1:
		return fmt.Sprintf("Novembre %d", year-1)
	default:
		return fmt.Sprintf("Novembre %d", year)
	}
}

// TrackLabel derives the recruitment-track label.
//
// No label without an enlistment date, or once the candidate abandoned
// before service. The two conditions are evaluated in order and the second
// overwrites the first, so a lead matching both lands on Olim/Hesder.
func TrackLabel(enlistmentDate, path, currentStatus, serviceType string) string {
	if strings.TrimSpace(enlistmentDate) == "" || currentStatus == StatusAbandonBefore {
		return ""
	}

	label := ""
	if path == PathNahal || path == PathHaredi {
		label = TrackMahal
	}
	switch serviceType {
	case ServiceComplete, ServiceStudies, ServiceGarinTzabar, ServiceHaredi, ServiceVolunteers:
		label = TrackOlimHesder
	default:
		if path == PathHesder {
			label = TrackOlimHesder
		}
	}
	return label
}
