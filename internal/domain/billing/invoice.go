package billing

import "regexp"

var invoiceNumberPattern = regexp.MustCompile(`(?i)Invoice #(\d+)`)

// ExtractInvoiceNumbers returns the digits of every "Invoice #<digits>" reference in
// description, case-insensitively, in order of appearance. Duplicates are kept.
func ExtractInvoiceNumbers(description string) []string {
	numbers := []string{}
	for _, match := range invoiceNumberPattern.FindAllStringSubmatch(description, -1) {
		numbers = append(numbers, match[1])
	}
	return numbers
}

// MatchesAnyInvoice reports whether description references at least one of wanted
func MatchesAnyInvoice(description string, wanted []string) bool {
	if description == "" || len(wanted) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[w] = struct{}{}
	}
	for _, n := range ExtractInvoiceNumbers(description) {
		if _, ok := set[n]; ok {
			return true
		}
	}
	return false
}
