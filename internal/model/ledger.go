package model

// Ledger is an accounting category a transaction can be posted against.
// Ledgers are created once and never mutated afterwards.
type Ledger struct {
	ID          string
	Name        string // unique within a workspace
	ParentGroup string // one of ParentGroups
	GSTIN       string // optional tax identifier
	StateCode   string // optional GST state code, see StateCodes
}

// ParentGroups is the fixed set of Tally accounting groups a ledger can
// belong to.
var ParentGroups = []string{
	"Bank Accounts",
	"Cash-in-Hand",
	"Current Assets",
	"Current Liabilities",
	"Expenses (Direct)",
	"Expenses (Indirect)",
	"Fixed Assets",
	"Income (Direct)",
	"Income (Indirect)",
	"Investments",
	"Loans & Advances (Asset)",
	"Loans (Liability)",
	"Misc. Expenses (Asset)",
	"Suspense Account",
}

// IsParentGroup reports whether name is a known accounting group.
func IsParentGroup(name string) bool {
	for _, g := range ParentGroups {
		if g == name {
			return true
		}
	}
	return false
}

// StateCode pairs a GST state code with the state name.
type StateCode struct {
	Code string
	Name string
}

// StateCodes is the GST state code table used for ledger tax details.
var StateCodes = []StateCode{
	{"01", "Jammu & Kashmir"},
	{"02", "Himachal Pradesh"},
	{"03", "Punjab"},
	{"04", "Chandigarh"},
	{"05", "Uttarakhand"},
	{"06", "Haryana"},
	{"07", "Delhi"},
	{"08", "Rajasthan"},
	{"09", "Uttar Pradesh"},
	{"10", "Bihar"},
	{"11", "Sikkim"},
	{"12", "Arunachal Pradesh"},
	{"13", "Nagaland"},
	{"14", "Manipur"},
	{"15", "Mizoram"},
	{"16", "Tripura"},
	{"17", "Meghalaya"},
	{"18", "Assam"},
	{"19", "West Bengal"},
	{"20", "Jharkhand"},
	{"21", "Odisha"},
	{"22", "Chhattisgarh"},
	{"23", "Madhya Pradesh"},
	{"24", "Gujarat"},
	{"26", "Dadra & Nagar Haveli and Daman & Diu"},
	{"27", "Maharashtra"},
	{"29", "Karnataka"},
	{"30", "Goa"},
	{"31", "Lakshadweep"},
	{"32", "Kerala"},
	{"33", "Tamil Nadu"},
	{"34", "Puducherry"},
	{"35", "Andaman & Nicobar Islands"},
	{"36", "Telangana"},
	{"37", "Andhra Pradesh"},
	{"38", "Ladakh"},
}
