package constants

import "fmt"

const (
	RoleLearner = "learner"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

// Template pesan error role
const (
	ErrOnlyTutorsCanAccess   = "❌ Hanya tutor yang boleh mengakses fitur %s."
	ErrOnlyLearnersCanAccess = "❌ Hanya learner yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorTutor(feature string) string {
	return fmt.Sprintf(ErrOnlyTutorsCanAccess, feature)
}

func RoleErrorLearner(feature string) string {
	return fmt.Sprintf(ErrOnlyLearnersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleLearner,
		RoleTutor,
		RoleAdmin,
	}

	TutorAndAbove = []string{
		RoleTutor,
		RoleAdmin,
	}
)
