package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/membership"
)

type Member struct {
	m *membership.Member
}

func NewMember(m *membership.Member) *Member {
	return &Member{m: m}
}

func (m Member) GetMap() hal.Entry {
	return hal.Entry{
		"address":    m.m.Address,
		"weight":     m.m.Weight,
		"updated_at": m.m.UpdatedAt,
	}
}

func (m Member) Resource() *hal.Resource {
	return hal.NewResource(m, m.LinkSelf())
}

func (m Member) LinkSelf() string {
	return strings.Replace(URLMember, "{id}", m.m.Address, -1)
}

func (m Member) MarshalJSON() ([]byte, error) {
	r := m.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
