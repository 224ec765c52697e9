package dashboard

import (
	"fmt"

	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/filter"
)

type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "sucesso"
	MessageError   MessageKind = "erro"
)

const (
	MsgCollecting    = "Coletando vagas... Isso pode levar alguns minutos."
	MsgNoneFound     = "Nenhuma vaga nova encontrada."
	MsgCollectFailed = "Erro ao coletar vagas."
)

func collectedText(n int) string {
	if n > 0 {
		return fmt.Sprintf("%d novas vagas encontradas!", n)
	}
	return MsgNoneFound
}

type Message struct {
	ID   uint64
	Kind MessageKind
	Text string
}

// State is the view state of the dashboard. Snapshots are deep enough
// copies that callers may keep them.
type State struct {
	Listings   []domain.Listing
	Stats      *domain.Stats // nil until the first successful refresh
	Filter     filter.Selection
	Loading    bool
	Loaded     bool
	Collecting bool
	Message    *Message
}

func (s State) clone() State {
	out := s
	out.Listings = append([]domain.Listing{}, s.Listings...)
	out.Filter = filter.Selection{}
	for _, k := range s.Filter.Keys() {
		out.Filter = out.Filter.With(k, s.Filter.Get(k))
	}
	if s.Stats != nil {
		st := *s.Stats
		out.Stats = &st
	}
	if s.Message != nil {
		m := *s.Message
		out.Message = &m
	}
	return out
}
