package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/exo-tech-xyz/gov-v1/merkle"
)

// ErrShortBuffer is returned when decoding runs past the end of the input.
var ErrShortBuffer = errors.New("snapshot: buffer too short")

// packer accumulates the deterministic little-endian encoding described in
// spec §4.2/§6: fixed-width fields in native LE form, 32-byte identities
// verbatim, sequences as u32 length || elements.
type packer struct {
	buf []byte
}

func (p *packer) packFixed32(b [32]byte) {
	p.buf = append(p.buf, b[:]...)
}

func (p *packer) packUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	p.buf = append(p.buf, b[:]...)
}

func (p *packer) packUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p.buf = append(p.buf, b[:]...)
}

// unpacker reads the mirror-image of packer off a byte slice.
type unpacker struct {
	buf []byte
	off int
}

func (u *unpacker) unpackFixed32() ([32]byte, error) {
	var out [32]byte
	if u.off+32 > len(u.buf) {
		return out, ErrShortBuffer
	}
	copy(out[:], u.buf[u.off:u.off+32])
	u.off += 32
	return out, nil
}

func (u *unpacker) unpackUint64() (uint64, error) {
	if u.off+8 > len(u.buf) {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint64(u.buf[u.off : u.off+8])
	u.off += 8
	return v, nil
}

func (u *unpacker) unpackUint32() (uint32, error) {
	if u.off+4 > len(u.buf) {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint32(u.buf[u.off : u.off+4])
	u.off += 4
	return v, nil
}

// EncodeMetaMerkleLeaf returns the fixed-width byte representation of a
// MetaMerkleLeaf: vote_account || voting_wallet || stake_merkle_root ||
// active_stake(LE u64).
func EncodeMetaMerkleLeaf(l MetaMerkleLeaf) []byte {
	p := &packer{buf: make([]byte, 0, 32+32+32+8)}
	p.packFixed32(l.VoteAccount)
	p.packFixed32(l.VotingWallet)
	p.packFixed32(l.StakeMerkleRoot)
	p.packUint64(l.ActiveStake)
	return p.buf
}

// DecodeMetaMerkleLeaf is the inverse of EncodeMetaMerkleLeaf.
func DecodeMetaMerkleLeaf(b []byte) (MetaMerkleLeaf, error) {
	u := &unpacker{buf: b}
	vote, err := u.unpackFixed32()
	if err != nil {
		return MetaMerkleLeaf{}, err
	}
	wallet, err := u.unpackFixed32()
	if err != nil {
		return MetaMerkleLeaf{}, err
	}
	root, err := u.unpackFixed32()
	if err != nil {
		return MetaMerkleLeaf{}, err
	}
	stake, err := u.unpackUint64()
	if err != nil {
		return MetaMerkleLeaf{}, err
	}
	return MetaMerkleLeaf{
		VoteAccount:     vote,
		VotingWallet:    wallet,
		StakeMerkleRoot: merkle.Root(root),
		ActiveStake:     stake,
	}, nil
}

// EncodeStakeMerkleLeaf returns the fixed-width byte representation of a
// StakeMerkleLeaf: stake_account || voting_wallet || active_stake(LE u64).
func EncodeStakeMerkleLeaf(l StakeMerkleLeaf) []byte {
	p := &packer{buf: make([]byte, 0, 32+32+8)}
	p.packFixed32(l.StakeAccount)
	p.packFixed32(l.VotingWallet)
	p.packUint64(l.ActiveStake)
	return p.buf
}

// DecodeStakeMerkleLeaf is the inverse of EncodeStakeMerkleLeaf.
func DecodeStakeMerkleLeaf(b []byte) (StakeMerkleLeaf, error) {
	u := &unpacker{buf: b}
	account, err := u.unpackFixed32()
	if err != nil {
		return StakeMerkleLeaf{}, err
	}
	wallet, err := u.unpackFixed32()
	if err != nil {
		return StakeMerkleLeaf{}, err
	}
	stake, err := u.unpackUint64()
	if err != nil {
		return StakeMerkleLeaf{}, err
	}
	return StakeMerkleLeaf{
		StakeAccount: account,
		VotingWallet: wallet,
		ActiveStake:  stake,
	}, nil
}

// Encode returns the deterministic encoding of a full snapshot:
// snapshot_slot || meta_merkle_root || u32 len(bundles) || bundles...
// where each bundle is leaf || u32 len(stake_leaves) || stake_leaves... ||
// u32 len(stake_proofs) || proofs (each a u32 len(siblings) || siblings).
// Two byte-identical snapshots encode identically; reordering any sequence
// changes the encoding (and therefore the content hash).
func Encode(s MetaMerkleSnapshot) []byte {
	p := &packer{buf: make([]byte, 0, 128*len(s.ValidatorBundles)+64)}
	p.packUint64(s.SnapshotSlot)
	p.packFixed32(s.MetaMerkleRoot)
	p.packUint32(uint32(len(s.ValidatorBundles)))

	for _, bundle := range s.ValidatorBundles {
		p.buf = append(p.buf, EncodeMetaMerkleLeaf(bundle.Leaf)...)

		p.packUint32(uint32(len(bundle.StakeLeaves)))
		for _, sl := range bundle.StakeLeaves {
			p.buf = append(p.buf, EncodeStakeMerkleLeaf(sl)...)
		}

		p.packUint32(uint32(len(bundle.StakeProofs)))
		for _, proof := range bundle.StakeProofs {
			p.packUint32(uint32(len(proof)))
			for _, sibling := range proof {
				p.packFixed32(sibling)
			}
		}
	}
	return p.buf
}

// Decode is the inverse of Encode.
func Decode(b []byte) (MetaMerkleSnapshot, error) {
	u := &unpacker{buf: b}

	slot, err := u.unpackUint64()
	if err != nil {
		return MetaMerkleSnapshot{}, err
	}
	root, err := u.unpackFixed32()
	if err != nil {
		return MetaMerkleSnapshot{}, err
	}
	bundleCount, err := u.unpackUint32()
	if err != nil {
		return MetaMerkleSnapshot{}, err
	}

	out := MetaMerkleSnapshot{
		SnapshotSlot:   slot,
		MetaMerkleRoot: merkle.Root(root),
	}
	for i := uint32(0); i < bundleCount; i++ {
		if u.off+104 > len(u.buf) {
			return MetaMerkleSnapshot{}, ErrShortBuffer
		}
		leaf, err := DecodeMetaMerkleLeaf(u.buf[u.off : u.off+104])
		if err != nil {
			return MetaMerkleSnapshot{}, err
		}
		u.off += 104

		leafCount, err := u.unpackUint32()
		if err != nil {
			return MetaMerkleSnapshot{}, err
		}
		stakeLeaves := make([]StakeMerkleLeaf, 0, leafCount)
		for j := uint32(0); j < leafCount; j++ {
			if u.off+72 > len(u.buf) {
				return MetaMerkleSnapshot{}, ErrShortBuffer
			}
			sl, err := DecodeStakeMerkleLeaf(u.buf[u.off : u.off+72])
			if err != nil {
				return MetaMerkleSnapshot{}, err
			}
			u.off += 72
			stakeLeaves = append(stakeLeaves, sl)
		}

		proofCount, err := u.unpackUint32()
		if err != nil {
			return MetaMerkleSnapshot{}, err
		}
		proofs := make([][]merkle.Root, 0, proofCount)
		for j := uint32(0); j < proofCount; j++ {
			siblingCount, err := u.unpackUint32()
			if err != nil {
				return MetaMerkleSnapshot{}, err
			}
			var siblings []merkle.Root
			for k := uint32(0); k < siblingCount; k++ {
				s, err := u.unpackFixed32()
				if err != nil {
					return MetaMerkleSnapshot{}, err
				}
				siblings = append(siblings, merkle.Root(s))
			}
			proofs = append(proofs, siblings)
		}

		out.ValidatorBundles = append(out.ValidatorBundles, ValidatorBundle{
			Leaf:        leaf,
			StakeLeaves: stakeLeaves,
			StakeProofs: proofs,
		})
	}

	if u.off != len(u.buf) {
		return MetaMerkleSnapshot{}, fmt.Errorf("snapshot: %d trailing bytes after decode", len(u.buf)-u.off)
	}
	return out, nil
}

// ContentHash is SHA-256(Encode(s)) — the snapshot_hash pinned into a
// ballot alongside the meta_merkle_root.
func ContentHash(s MetaMerkleSnapshot) merkle.Root {
	return merkle.HashLeaf(Encode(s))
}
