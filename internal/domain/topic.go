package domain

// Grade is a school-year label accepted by the generation pipeline.
type Grade string

// Grades offered by the generation form, three junior and three senior years.
const (
	GradeJunior1 Grade = "初一"
	GradeJunior2 Grade = "初二"
	GradeJunior3 Grade = "初三"
	GradeSenior1 Grade = "高一"
	GradeSenior2 Grade = "高二"
	GradeSenior3 Grade = "高三"
)

// Subject is a school-subject label accepted by the generation pipeline.
type Subject string

// Subjects offered by the generation form. SubjectGeneral is the fallback
// when the topic does not map to a specific subject.
const (
	SubjectGeneral   Subject = "通用"
	SubjectChinese   Subject = "语文"
	SubjectMath      Subject = "数学"
	SubjectEnglish   Subject = "英语"
	SubjectPhysics   Subject = "物理"
	SubjectChemistry Subject = "化学"
	SubjectBiology   Subject = "生物"
	SubjectHistory   Subject = "历史"
	SubjectGeography Subject = "地理"
	SubjectPolitics  Subject = "政治"
)

// ValidGrade reports whether g is one of the six supported school years.
func ValidGrade(g Grade) bool {
	switch g {
	case GradeJunior1, GradeJunior2, GradeJunior3,
		GradeSenior1, GradeSenior2, GradeSenior3:
		return true
	}
	return false
}

// ValidSubject reports whether s is one of the supported subject labels.
func ValidSubject(s Subject) bool {
	switch s {
	case SubjectGeneral, SubjectChinese, SubjectMath, SubjectEnglish,
		SubjectPhysics, SubjectChemistry, SubjectBiology,
		SubjectHistory, SubjectGeography, SubjectPolitics:
		return true
	}
	return false
}
