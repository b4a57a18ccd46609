package membership

import (
	"fmt"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/keypair"
	"agora.network/agora/lib/common/observer"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/storage"
)

// Member is one record of the group directory. the storage should support,
//  * find by `Address`:
// 	- key: 'gm-member-<Member.Address>': `Member`
//  * total weight of the group:
// 	- key: 'gm-total': `common.Weight`

const (
	MemberPrefix   string = "gm-member-"
	TotalWeightKey string = "gm-total"
)

type Member struct {
	Address   string        `json:"address"`
	Weight    common.Weight `json:"weight"`
	UpdatedAt string        `json:"updated_at"`
}

func NewMember(address string, weight common.Weight) Member {
	return Member{
		Address:   address,
		Weight:    weight,
		UpdatedAt: common.NowISO8601(),
	}
}

func (m Member) Validate() error {
	if !keypair.IsValidAddress(m.Address) {
		return errors.InvalidMember.Clone().SetData("address", m.Address)
	}

	return nil
}

func (m Member) String() string {
	return string(common.MustJSONMarshal(m))
}

func (m Member) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(m)
}

func GetMemberKey(address string) string {
	return fmt.Sprintf("%s%s", MemberPrefix, address)
}

func ExistsMember(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetMemberKey(address))
}

func GetMember(st *storage.LevelDBBackend, address string) (m Member, err error) {
	if err = st.Get(GetMemberKey(address), &m); err != nil {
		if errors.StorageRecordDoesNotExist.Equal(err) {
			err = errors.MemberNotFound.Clone().SetData("address", address)
		}
		return
	}

	return
}

func GetTotalWeight(st *storage.LevelDBBackend) (total common.Weight, err error) {
	var exists bool
	if exists, err = st.Has(TotalWeightKey); err != nil {
		return
	} else if !exists {
		return common.Weight(0), nil
	}

	err = st.Get(TotalWeightKey, &total)

	return
}

func setTotalWeight(st *storage.LevelDBBackend, total common.Weight) (err error) {
	var exists bool
	if exists, err = st.Has(TotalWeightKey); err != nil {
		return
	}

	if exists {
		return st.Set(TotalWeightKey, total)
	}
	return st.New(TotalWeightKey, total)
}

// SaveMembers upserts member records and keeps the recorded total weight in
// sync. A zero weight removes the member; this is how a group shrinks while
// proposals are in flight.
func SaveMembers(st *storage.LevelDBBackend, members ...Member) (err error) {
	var total common.Weight
	if total, err = GetTotalWeight(st); err != nil {
		return
	}

	for _, m := range members {
		if err = m.Validate(); err != nil {
			return
		}

		key := GetMemberKey(m.Address)

		var exists bool
		if exists, err = st.Has(key); err != nil {
			return
		}

		if exists {
			var previous Member
			if err = st.Get(key, &previous); err != nil {
				return
			}
			if total, err = total.Sub(previous.Weight); err != nil {
				return
			}
		}

		m.UpdatedAt = common.NowISO8601()

		switch {
		case m.Weight.IsZero() && exists:
			if err = st.Remove(key); err != nil {
				return
			}
		case m.Weight.IsZero():
			// removing an unknown member is a no-op
		case exists:
			if err = st.Set(key, m); err != nil {
				return
			}
		default:
			if err = st.New(key, m); err != nil {
				return
			}
		}

		if !m.Weight.IsZero() {
			if total, err = total.Add(m.Weight); err != nil {
				return
			}
		}
	}

	if err = setTotalWeight(st, total); err != nil {
		return
	}

	for _, m := range members {
		observer.MemberObserver.Trigger(
			observer.NewCondition(observer.ResourceMember, observer.ConditionIdentifier, m.Address).String(), &m)
		observer.MemberObserver.Trigger(
			observer.NewCondition(observer.ResourceMember, observer.ConditionAll).String(), &m)
	}

	return
}

func WalkMembers(st *storage.LevelDBBackend, option *storage.WalkOption, walkFunc func(*Member, []byte) (bool, error)) error {
	return st.Walk(MemberPrefix, option, func(key, value []byte) (bool, error) {
		var m Member
		if err := common.DecodeJSONValue(value, &m); err != nil {
			return false, err
		}
		return walkFunc(&m, key)
	})
}
