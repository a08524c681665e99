package manager

import (
	"encoding/base64"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rustperms/rustperms/pkg/rperrors"
	"github.com/rustperms/rustperms/pkg/rustperms/entity"
	"github.com/rustperms/rustperms/pkg/rustperms/trie"
)

// snapshotVersion tags the wire shape of a user/group snapshot blob,
// independent of the delta codec's own version tag so the two can evolve
// separately.
const snapshotVersion = 1

// wireUser is the on-wire shape of an entity.User. Permissions is a
// *trie.Node field: trie.Node already implements msgpack.CustomEncoder and
// CustomDecoder, so it serializes as its own (path, enabled) record list
// rather than the unexported tree shape.
type wireUser struct {
	UserUID     string     `msgpack:"user_uid"`
	Groups      []string   `msgpack:"groups"`
	Permissions *trie.Node `msgpack:"permissions"`
}

type wireGroup struct {
	GroupUID    string     `msgpack:"group_uid"`
	Weight      int32      `msgpack:"weight"`
	Members     []string   `msgpack:"members"`
	Parents     []string   `msgpack:"parents"`
	Children    []string   `msgpack:"children"`
	Permissions *trie.Node `msgpack:"permissions"`
}

// GetSnapshot returns the manager's users and groups encoded as opaque,
// versioned, base64url blobs suitable for GetSnapshot RPC responses and for
// a freshly bootstrapping replica to decode via FromSnapshot.
func (m *Manager) GetSnapshot() (usersBlob, groupsBlob string, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	usersBlob, err = encodeUsers(m.users)
	if err != nil {
		return "", "", err
	}

	groupsBlob, err = encodeGroups(m.groups)
	if err != nil {
		return "", "", err
	}

	return usersBlob, groupsBlob, nil
}

// FromSnapshot decodes a manager from the blobs returned by GetSnapshot.
func FromSnapshot(usersBlob, groupsBlob string) (*Manager, error) {
	users, err := decodeUsers(usersBlob)
	if err != nil {
		return nil, err
	}

	groups, err := decodeGroups(groupsBlob)
	if err != nil {
		return nil, err
	}

	return &Manager{users: users, groups: groups}, nil
}

func encodeUsers(users map[string]*entity.User) (string, error) {
	wire := make([]wireUser, 0, len(users))
	for _, u := range users {
		wire = append(wire, wireUser{
			UserUID:     u.UserUID,
			Groups:      u.Groups.Slice(),
			Permissions: u.Permissions,
		})
	}

	return encodeBlob(wire)
}

func decodeUsers(blob string) (map[string]*entity.User, error) {
	var wire []wireUser
	if err := decodeBlob(blob, &wire); err != nil {
		return nil, err
	}

	users := make(map[string]*entity.User, len(wire))

	for _, w := range wire {
		u := entity.NewUser(w.UserUID)
		for _, g := range w.Groups {
			u.AddGroup(g)
		}

		if w.Permissions != nil {
			u.Permissions = w.Permissions
		}

		users[w.UserUID] = u
	}

	return users, nil
}

func encodeGroups(groups map[string]*entity.Group) (string, error) {
	wire := make([]wireGroup, 0, len(groups))
	for _, g := range groups {
		wire = append(wire, wireGroup{
			GroupUID:    g.GroupUID,
			Weight:      g.Weight,
			Members:     g.Members.Slice(),
			Parents:     g.Parents.Slice(),
			Children:    g.Children.Slice(),
			Permissions: g.Permissions,
		})
	}

	return encodeBlob(wire)
}

func decodeGroups(blob string) (map[string]*entity.Group, error) {
	var wire []wireGroup
	if err := decodeBlob(blob, &wire); err != nil {
		return nil, err
	}

	groups := make(map[string]*entity.Group, len(wire))

	for _, w := range wire {
		g := entity.NewGroup(w.GroupUID, w.Weight)
		for _, m := range w.Members {
			g.AddMember(m)
		}

		for _, p := range w.Parents {
			g.AddParent(p)
		}

		for _, c := range w.Children {
			g.AddChild(c)
		}

		if w.Permissions != nil {
			g.Permissions = w.Permissions
		}

		groups[w.GroupUID] = g
	}

	return groups, nil
}

func encodeBlob(v any) (string, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return "", rperrors.ValidateInternalError(err, "snapshot")
	}

	buf := make([]byte, 1+len(payload))
	buf[0] = snapshotVersion
	copy(buf[1:], payload)

	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf), nil
}

func decodeBlob(blob string, out any) error {
	buf, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(blob)
	if err != nil {
		return rperrors.ErrCodecMalformed
	}

	if len(buf) == 0 {
		return rperrors.ErrCodecMalformed
	}

	if buf[0] != snapshotVersion {
		return rperrors.ErrCodecUnsupportedVersion
	}

	if err := msgpack.Unmarshal(buf[1:], out); err != nil {
		return rperrors.ErrCodecMalformed
	}

	return nil
}
