// Package domain holds the records exchanged with the vagas backend.
//
// Listings are created and deleted only by the backend; the dashboard reads
// them and may change their review status.
package domain

import "fmt"

type Source string

const (
	SourceIndeed        Source = "indeed"
	SourceLinkedInJobs  Source = "linkedin_jobs"
	SourceLinkedInPosts Source = "linkedin_posts"
)

var Sources = []Source{SourceIndeed, SourceLinkedInJobs, SourceLinkedInPosts}

func ParseSource(s string) (Source, error) {
	src := Source(s)
	switch src {
	case SourceIndeed, SourceLinkedInJobs, SourceLinkedInPosts:
		return src, nil
	}
	return "", fmt.Errorf("unknown listing source %q", s)
}

// Label is the human name shown on cards and in the filter panel.
func (s Source) Label() string {
	switch s {
	case SourceIndeed:
		return "Indeed"
	case SourceLinkedInJobs:
		return "LinkedIn Vagas"
	case SourceLinkedInPosts:
		return "LinkedIn Posts"
	}
	return string(s)
}

type WorkMode string

const (
	WorkModeRemote      WorkMode = "remoto"
	WorkModeHybrid      WorkMode = "hibrido"
	WorkModeOnSite      WorkMode = "presencial"
	WorkModeUnspecified WorkMode = "nao_especificado"
)

func ParseWorkMode(s string) (WorkMode, error) {
	m := WorkMode(s)
	switch m {
	case WorkModeRemote, WorkModeHybrid, WorkModeOnSite, WorkModeUnspecified:
		return m, nil
	}
	return "", fmt.Errorf("unknown work mode %q", s)
}

// Specified reports whether the mode carries information worth showing.
func (m WorkMode) Specified() bool {
	return m != "" && m != WorkModeUnspecified
}

type EnglishLevel string

const (
	EnglishNone         EnglishLevel = "nenhum"
	EnglishBasic        EnglishLevel = "basico"
	EnglishIntermediate EnglishLevel = "intermediario"
	EnglishFluent       EnglishLevel = "fluente"
	EnglishUnspecified  EnglishLevel = "nao_especificado"
)

func ParseEnglishLevel(s string) (EnglishLevel, error) {
	l := EnglishLevel(s)
	switch l {
	case EnglishNone, EnglishBasic, EnglishIntermediate, EnglishFluent, EnglishUnspecified:
		return l, nil
	}
	return "", fmt.Errorf("unknown english requirement %q", s)
}

func (l EnglishLevel) Specified() bool {
	return l != "" && l != EnglishUnspecified
}

// Status is the user-assigned review state of a listing.
type Status string

const (
	StatusPending   Status = "pendente"
	StatusApplied   Status = "aplicada"
	StatusDiscarded Status = "descartada"
)

var Statuses = []Status{StatusPending, StatusApplied, StatusDiscarded}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApplied, StatusDiscarded:
		return st, nil
	}
	return "", fmt.Errorf("unknown review status %q", s)
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusApplied:
		return "Aplicada"
	case StatusDiscarded:
		return "Descartada"
	}
	return string(s)
}

type ContactForm string

const (
	ContactEmail   ContactForm = "email"
	ContactLink    ContactForm = "link"
	ContactMessage ContactForm = "mensagem"
	ContactIndeed  ContactForm = "indeed"
)

// Listing is one job posting ("vaga"). Optional text fields are empty when
// the backend sent null.
type Listing struct {
	ID            int64        `json:"id"`
	Source        Source       `json:"fonte"`
	Title         string       `json:"titulo"`
	Company       string       `json:"empresa,omitempty"`
	Location      string       `json:"localizacao,omitempty"`
	JobType       string       `json:"tipo_vaga,omitempty"`
	WorkMode      WorkMode     `json:"modalidade,omitempty"`
	English       EnglishLevel `json:"requisito_ingles,omitempty"`
	Link          string       `json:"link_vaga,omitempty"`
	ContactForm   ContactForm  `json:"forma_contato,omitempty"`
	ContactEmail  string       `json:"email_contato,omitempty"`
	AuthorName    string       `json:"nome_autor,omitempty"`
	AuthorProfile string       `json:"perfil_autor,omitempty"`
	Status        Status       `json:"status,omitempty"`
	CollectedOn   string       `json:"data_coleta,omitempty"` // YYYY-MM-DD
	Notes         string       `json:"observacoes,omitempty"`
	CreatedAt     string       `json:"created_at,omitempty"`
	UpdatedAt     string       `json:"updated_at,omitempty"`
}

// ListingUpdate is a partial update; nil fields are left untouched.
type ListingUpdate struct {
	Title        *string       `json:"titulo,omitempty"`
	Company      *string       `json:"empresa,omitempty"`
	JobType      *string       `json:"tipo_vaga,omitempty"`
	Link         *string       `json:"link_vaga,omitempty"`
	Location     *string       `json:"localizacao,omitempty"`
	WorkMode     *WorkMode     `json:"modalidade,omitempty"`
	English      *EnglishLevel `json:"requisito_ingles,omitempty"`
	ContactForm  *ContactForm  `json:"forma_contato,omitempty"`
	ContactEmail *string       `json:"email_contato,omitempty"`
	Status       *Status       `json:"status,omitempty"`
	Notes        *string       `json:"observacoes,omitempty"`
}

// ListingPage is the body of GET /vagas/.
type ListingPage struct {
	Total    int       `json:"total"`
	Listings []Listing `json:"vagas"`
}
