package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidGrade(t *testing.T) {
	t.Parallel()

	for _, g := range []Grade{GradeJunior1, GradeJunior2, GradeJunior3, GradeSenior1, GradeSenior2, GradeSenior3} {
		assert.True(t, ValidGrade(g), "grade %q", g)
	}

	for _, g := range []Grade{"", "大一", "初四", "junior1"} {
		assert.False(t, ValidGrade(g), "grade %q", g)
	}
}

func TestValidSubject(t *testing.T) {
	t.Parallel()

	for _, s := range []Subject{
		SubjectGeneral, SubjectChinese, SubjectMath, SubjectEnglish, SubjectPhysics,
		SubjectChemistry, SubjectBiology, SubjectHistory, SubjectGeography, SubjectPolitics,
	} {
		assert.True(t, ValidSubject(s), "subject %q", s)
	}

	for _, s := range []Subject{"", "音乐", "体育", "math"} {
		assert.False(t, ValidSubject(s), "subject %q", s)
	}
}
