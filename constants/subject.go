package constants

// GeneralSubject is used when no subject pattern matches.
const GeneralSubject = "General"

// SubjectTable lists subjects in scoring order. Ties go to the earlier entry.
var SubjectTable = []Synonyms[string]{
	{"Mathematics", []string{"mathematics", "math", "maths", "wiskunde"}},
	{"English", []string{"english", "engels", "home language english", "hl english"}},
	{"Afrikaans", []string{"afrikaans", "afr", "home language afrikaans"}},
	{"Life Skills", []string{"life skills", "lewensvaardighede"}},
	{"Natural Sciences", []string{"natural sciences", "science", "natuurwetenskappe"}},
	{"Social Sciences", []string{"social sciences", "history", "geography", "sosiale wetenskappe"}},
	{"Physical Sciences", []string{"physical sciences", "fisiese wetenskappe"}},
	{"Life Sciences", []string{"life sciences", "biology", "lewenswetenskappe"}},
	{"Accounting", []string{"accounting", "rekeningkunde"}},
	{"Business Studies", []string{"business studies", "besigheidstudies"}},
	{"Economics", []string{"economics", "ekonomie"}},
	{"Technology", []string{"technology", "tegnologie"}},
	{"Creative Arts", []string{"creative arts", "arts", "kreatiewe kunste"}},
	{"Mathematical Literacy", []string{"mathematical literacy", "math lit", "maths literacy", "wiskundige geletterdheid"}},
}

// IsKnownSubject reports whether s is in the subject vocabulary or is GeneralSubject.
func IsKnownSubject(s string) bool {
	if s == GeneralSubject {
		return true
	}
	for _, row := range SubjectTable {
		if row.Key == s {
			return true
		}
	}
	return false
}
