// Package card builds the view of a single listing and its status action.
package card

import (
	"context"
	"net/url"

	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/domain"
)

type ActionKind string

const (
	ActionOpenListing   ActionKind = "open_listing"
	ActionEmail         ActionKind = "email"
	ActionAuthorProfile ActionKind = "author_profile"
	ActionSearchAuthor  ActionKind = "search_author"
	ActionSearchTitle   ActionKind = "search_title"
)

type Action struct {
	Kind     ActionKind
	Label    string
	Href     string
	External bool // opens in a new tab
}

const (
	linkedInPeopleSearch  = "https://www.linkedin.com/search/results/people/"
	linkedInContentSearch = "https://www.linkedin.com/search/results/content/"
)

// PrimaryAction picks exactly one action by the first available field:
// listing link, contact email, author profile, author name, title.
func PrimaryAction(l domain.Listing) Action {
	switch {
	case l.Link != "":
		return Action{Kind: ActionOpenListing, Label: "Ver vaga", Href: l.Link, External: true}
	case l.ContactEmail != "":
		return Action{Kind: ActionEmail, Label: "Enviar Email", Href: mailto(l.ContactEmail, l.Title)}
	case l.AuthorProfile != "":
		return Action{Kind: ActionAuthorProfile, Label: "Contatar Autor", Href: l.AuthorProfile, External: true}
	case l.AuthorName != "":
		return Action{Kind: ActionSearchAuthor, Label: "Buscar Autor", Href: search(linkedInPeopleSearch, l.AuthorName), External: true}
	}
	return Action{Kind: ActionSearchTitle, Label: "Buscar no LinkedIn", Href: search(linkedInContentSearch, l.Title), External: true}
}

func mailto(addr, title string) string {
	return "mailto:" + addr + "?subject=" + url.PathEscape("Candidatura: "+title)
}

func search(base, keywords string) string {
	return base + "?" + url.Values{"keywords": {keywords}}.Encode()
}

var statusClasses = map[domain.Status]string{
	domain.StatusPending:   "bg-yellow-100 text-yellow-800",
	domain.StatusApplied:   "bg-green-100 text-green-800",
	domain.StatusDiscarded: "bg-gray-100 text-gray-800",
}

type StatusOption struct {
	Value    domain.Status
	Label    string
	Selected bool
}

// View is everything the template needs to render one card.
type View struct {
	ID          int64
	Title       string
	Company     string
	Location    string
	SourceLabel string
	JobType     string
	WorkMode    string // empty when unspecified
	English     string // empty when unspecified
	Author      string // only for LinkedIn posts
	Status      domain.Status
	StatusClass string
	Statuses    []StatusOption
	Action      Action
}

func New(l domain.Listing) View {
	v := View{
		ID:          l.ID,
		Title:       l.Title,
		Company:     l.Company,
		Location:    l.Location,
		SourceLabel: l.Source.Label(),
		JobType:     l.JobType,
		Status:      l.Status,
		StatusClass: statusClasses[l.Status],
		Action:      PrimaryAction(l),
	}
	if l.WorkMode.Specified() {
		v.WorkMode = string(l.WorkMode)
	}
	if l.English.Specified() {
		v.English = string(l.English)
	}
	if l.Source == domain.SourceLinkedInPosts {
		v.Author = l.AuthorName
	}
	for _, s := range domain.Statuses {
		v.Statuses = append(v.Statuses, StatusOption{Value: s, Label: s.Label(), Selected: s == l.Status})
	}
	return v
}

func Views(ls []domain.Listing) []View {
	out := make([]View, 0, len(ls))
	for _, l := range ls {
		out = append(out, New(l))
	}
	return out
}

// StatusUpdater is the API call behind the card's status selector.
type StatusUpdater interface {
	UpdateListingStatus(ctx context.Context, id int64, status domain.Status) (domain.Listing, error)
}

// ChangeStatus issues the update and, only when it succeeds, calls
// onChanged once so the owner can re-fetch. Failures are logged and
// returned; nothing is patched locally.
func ChangeStatus(ctx context.Context, u StatusUpdater, id int64, status domain.Status, onChanged func(context.Context)) error {
	if _, err := u.UpdateListingStatus(ctx, id, status); err != nil {
		log.WithFields(log.Fields{
			"component": "card",
			"id":        id,
			"status":    status,
		}).WithError(err).Error("update status failed")
		return err
	}
	if onChanged != nil {
		onChanged(ctx)
	}
	return nil
}
