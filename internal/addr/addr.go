// Package addr derives deterministic storage addresses for every record in
// the graph. An address is a blake2b-256 digest over a namespace tag plus the
// record's key parts; the same inputs always produce the same address, so the
// address doubles as the uniqueness lock for relationship records.
package addr

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the byte length of identities and addresses.
const Size = 32

// Identity is an opaque 32-byte caller identity (wallet, account, device —
// the graph does not care, it only keys records by it).
type Identity [Size]byte

// Address is the storage location of exactly one record.
type Address [Size]byte

// IdentityFromSeed hashes an arbitrary string into an Identity. Used by the
// seeder and tests; production callers normally parse a hex identity instead.
func IdentityFromSeed(seed string) Identity {
	return Identity(blake2b.Sum256([]byte("identity:" + seed)))
}

// ParseIdentity decodes a 64-char hex string into an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != Size {
		return id, fmt.Errorf("invalid identity %q", s)
	}
	copy(id[:], raw)
	return id, nil
}

func (id Identity) String() string { return hex.EncodeToString(id[:]) }

// IsZero reports whether the identity is the all-zero value.
func (id Identity) IsZero() bool { return id == Identity{} }

// ParseAddress decodes a 64-char hex string into an Address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != Size {
		return a, fmt.Errorf("invalid address %q", s)
	}
	copy(a[:], raw)
	return a, nil
}

func (a Address) String() string { return hex.EncodeToString(a[:]) }

// Derive computes the address for a namespace and its key parts. Each part is
// length-prefixed before hashing so that ("ab","c") and ("a","bc") can never
// collide.
func Derive(namespace string, parts ...[]byte) Address {
	h, err := blake2b.New256(nil)
	if err != nil {
		// unreachable: blake2b.New256 only fails with a key longer than 64 bytes
		panic(err)
	}
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(namespace)))
	h.Write(n[:])
	h.Write([]byte(namespace))
	for _, p := range parts {
		binary.LittleEndian.PutUint32(n[:], uint32(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	var a Address
	h.Sum(a[:0])
	return a
}

func u8(v uint8) []byte { return []byte{v} }

func u64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// Namespaced derivations. One function per record family keeps every call
// site honest about which key parts participate in uniqueness.

func UserProfile(owner Identity) Address {
	return Derive("user_profile", owner[:])
}

func UserStats(owner Identity) Address {
	return Derive("user_stats", owner[:])
}

// Track addresses are owner-scoped: two creators may each publish a track
// with the same title and artist, but a single creator cannot publish the
// same (title, artist) twice.
func Track(owner Identity, title, artist string) Address {
	return Derive("track", owner[:], []byte(title), []byte(artist))
}

func TrackPlay(track Address, user Identity) Address {
	return Derive("track_play", track[:], user[:])
}

func Playlist(owner Identity, name string) Address {
	return Derive("playlist", owner[:], []byte(name))
}

func PlaylistTrack(playlist, track Address) Address {
	return Derive("playlist_track", playlist[:], track[:])
}

func PlaylistCollaborator(playlist Address, user Identity) Address {
	return Derive("playlist_collaborator", playlist[:], user[:])
}

func TrackLike(user Identity, track Address) Address {
	return Derive("track_like", user[:], track[:])
}

func PlaylistLike(user Identity, playlist Address) Address {
	return Derive("playlist_like", user[:], playlist[:])
}

func UserFollow(follower, following Identity) Address {
	return Derive("user_follow", follower[:], following[:])
}

// ActivityFeed is keyed by the owner's monotonic activity sequence rather
// than a timestamp, so two activities recorded in the same second can never
// collide and the feed stays enumerable.
func ActivityFeed(user Identity, seq uint64) Address {
	return Derive("activity_feed", user[:], u64(seq))
}

func SearchIndex(term string, targetType uint8) Address {
	return Derive("search_index", []byte(term), u8(targetType))
}

func Recommendation(user Identity, target Address, recType uint8) Address {
	return Derive("recommendation", user[:], target[:], u8(recType))
}

func UserInsights(user Identity) Address {
	return Derive("user_insights", user[:])
}
