package formadoc

import "strings"

// Nature-of-action values recognized by the attestation template. Exactly
// one checkbox is ticked, selected by exact string match.
const (
	NatureFormation     = "Action de formation"
	NatureBilan         = "Bilan de compétences"
	NatureVAE           = "Action de VAE"
	NatureApprentissage = "Action de formation par apprentissage"
)

// natureOrder lists the four checkbox positions in template order.
var natureOrder = []string{
	NatureFormation,
	NatureBilan,
	NatureVAE,
	NatureApprentissage,
}

// Recipient identifies one attestation beneficiary. Recipients are
// ephemeral: built per generation request, never persisted.
type Recipient struct {
	LastName  string
	FirstName string
	Company   string // affiliated organization, may be empty
}

// FullName returns "First Last" with empty parts dropped.
func (r Recipient) FullName() string {
	return FullName(r.FirstName, r.LastName)
}

// CommonFields carries the session-level facts shared by every recipient of
// one document batch. It is read-only for the duration of the batch and
// discarded afterwards.
type CommonFields struct {
	SessionID          string
	OrganizationName   string // beneficiary organization
	DispenserName      string // training provider (dispensing entity)
	RepresentativeName string
	ActionTitle        string
	ActionNature       string // one of the Nature* constants
	StartDate          string // ISO date
	EndDate            string // ISO date
	DurationHours      float64
	Location           string
	SignatureDate      string // ISO date, required before generation
	SignatoryName      string
	SignatoryRole      string
}

// Validate checks the fail-fast precondition for a generation batch.
// A missing signature date rejects the whole operation before any
// composition is attempted.
func (f CommonFields) Validate() error {
	if strings.TrimSpace(f.SignatureDate) == "" {
		return ErrMissingSignatureDate
	}
	return nil
}
