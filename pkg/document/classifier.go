package document

import "strings"

// classificationRule pairs filename markers with the type they imply.
// Order matters: the first rule whose marker occurs in the lower-cased
// filename wins.
type classificationRule struct {
	markers []string
	t       Type
}

var classificationRules = []classificationRule{
	{[]string{"resume", "cv"}, TypeResume},
	{[]string{"i94", "i-94"}, TypeI94},
	{[]string{"passport"}, TypePassport},
	{[]string{"visa"}, TypeVisa},
	{[]string{"ead"}, TypeEAD},
	{[]string{"ssn"}, TypeSSN},
	{[]string{"diploma", "degree"}, TypeDiploma},
	{[]string{"transcript"}, TypeTranscript},
}

// Classify infers a document type from the original filename. It is used
// on the single-file upload path where the caller supplies no type.
func Classify(originalFilename string) Type {
	name := strings.ToLower(originalFilename)
	for _, rule := range classificationRules {
		for _, marker := range rule.markers {
			if strings.Contains(name, marker) {
				return rule.t
			}
		}
	}
	return TypeOther
}
