package core

const (
	SubjectKorean  = "국어"
	SubjectEnglish = "영어"
	SubjectMath    = "수학"
	SubjectOther   = "기타"
)

// KnownSubjects are the subjects tracked on their own; anything else is folded into SubjectOther.
var KnownSubjects = []string{SubjectKorean, SubjectEnglish, SubjectMath}

// AllSubjects is KnownSubjects followed by SubjectOther, the display order of per-subject totals.
var AllSubjects = []string{SubjectKorean, SubjectEnglish, SubjectMath, SubjectOther}

func IsKnownSubject(s string) bool {
	for _, k := range KnownSubjects {
		if s == k {
			return true
		}
	}
	return false
}

// NormalizeSubject maps unknown subjects to SubjectOther.
func NormalizeSubject(s string) string {
	s = CleanString(s)
	if IsKnownSubject(s) {
		return s
	}
	return SubjectOther
}
