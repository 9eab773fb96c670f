package table

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Aliases maps each logical field to its historically observed column-name
// variants, most preferred first. Internal (CRM export) and external
// (attendee list) sides prefer different spellings of the same field, so
// company and email carry one list per side.
type Aliases struct {
	FirstName      []string `yaml:"first_name"`
	LastName       []string `yaml:"last_name"`
	Company        []string `yaml:"company"`         // internal-side precedence
	Business       []string `yaml:"business"`        // external-side precedence
	ContactCompany []string `yaml:"contact_company"` // contact-export precedence
	Email          []string `yaml:"email"`           // internal-side precedence
	EmailAddr      []string `yaml:"email_address"`   // external-side precedence
	EmailDomain    []string `yaml:"email_domain"`
	CRD            []string `yaml:"crd"`         // internal-side CRD column
	MatchedCRD     []string `yaml:"matched_crd"` // external-side CRD column
	RecordID       []string `yaml:"record_id"`
}

// DefaultAliases returns the variant lists observed across export versions.
func DefaultAliases() Aliases {
	return Aliases{
		FirstName:      []string{"First_Name_", "First Name", "First name", "First"},
		LastName:       []string{"Last_Name_", "Last Name", "Last name", "Last", "Last Name "},
		Company:        []string{"Company_Name", "Company Name", "Company", "Business_Name", "Business Name"},
		Business:       []string{"Business_Name", "Business Name", "Company", "Company Name"},
		ContactCompany: []string{"Company Name", "Company_Name", "Company", "Business Name", "Business_Name"},
		Email:          []string{"Email_", "Email", "Email Address", "Email_Address", "EmailAddress"},
		EmailAddr:      []string{"Email_Address", "Email Address", "Email", "Email_"},
		EmailDomain:    []string{"Email_Domain", "Email Domain"},
		CRD:            []string{"CRD", "Rep_CRD", "RepCRD", "MatchedRepCRD", "Matched_CRD"},
		MatchedCRD:     []string{"Matched_CRD", "MatchedRepCRD", "CRD"},
		RecordID:       []string{"Record_ID", "RecordID", "Record Id", "ID", "id"},
	}
}

// LoadAliases reads alias overrides from a YAML file. Fields absent from the
// file keep their defaults; an empty path returns the defaults unchanged.
func LoadAliases(path string) (Aliases, error) {
	a := DefaultAliases()
	if path == "" {
		return a, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return a, eris.Wrap(err, "aliases: read file")
	}
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return a, eris.Wrap(err, "aliases: unmarshal")
	}
	return a, nil
}
