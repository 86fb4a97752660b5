// Package ledger is a bbolt-backed simulated on-chain ledger: account
// storage, lamport transfers and slot-hash history, used by the processor
// package's tests in place of a live validator. It is the one package in this repo that talks to bbolt,
// mirroring how node/store/db.go in the teacher repo is the sole owner of
// its *bolt.DB.
package ledger

import (
	"fmt"
	"time"

	"entropy.dev/node/account"
	"entropy.dev/node/runtime"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketAccounts  = []byte("accounts_by_pubkey")
	bucketLamports  = []byte("lamports_by_pubkey")
	bucketOwners    = []byte("owners_by_pubkey")
	bucketSlotHash  = []byte("slot_hash_by_slot")
)

// rentLamportsPerByteYear approximates mainnet-beta's rent parameters closely
// enough for simulation purposes: it is not used for consensus, only to
// decide how many lamports CreateAccount/TopUpAndAssign must fund.
const (
	rentLamportsPerByteYear = 3480
	rentExemptionYears      = 2
	accountOverheadBytes    = 128
)

type accountRecord struct {
	owner    account.Pubkey
	lamports uint64
	data     []byte
	dirty    bool
}

// Ledger is an in-memory working set backed by a bbolt database. Accounts
// touched during a simulated instruction are loaded into the cache once;
// Commit persists the dirty set back to bbolt atomically.
type Ledger struct {
	db       *bolt.DB
	cache    map[account.Pubkey]*accountRecord
	slot     uint64
	programs map[account.Pubkey]ProgramHandler
}

func Open(path string) (*Ledger, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("ledger: open bbolt: %w", err)
	}
	if err := bdb.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketAccounts, bucketLamports, bucketOwners, bucketSlotHash} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return &Ledger{db: bdb, cache: make(map[account.Pubkey]*accountRecord)}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// SetSlot advances the simulated current slot, e.g. between test steps.
func (l *Ledger) SetSlot(slot uint64) {
	l.slot = slot
}

func (l *Ledger) CurrentSlot() uint64 {
	return l.slot
}

func (l *Ledger) load(key account.Pubkey) (*accountRecord, error) {
	if rec, ok := l.cache[key]; ok {
		return rec, nil
	}
	rec := &accountRecord{owner: runtime.SystemProgramID}
	err := l.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketAccounts).Get(key[:]); data != nil {
			rec.data = append([]byte(nil), data...)
		}
		if lamports := tx.Bucket(bucketLamports).Get(key[:]); lamports != nil {
			rec.lamports = decodeU64(lamports)
		}
		if owner := tx.Bucket(bucketOwners).Get(key[:]); owner != nil {
			copy(rec.owner[:], owner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.cache[key] = rec
	return rec, nil
}

// AccountInfo returns a mutable, process-local view of key suitable for
// handing to the processor package. IsSigner/IsWritable reflect what the
// simulated transaction declared for this account, not ledger state.
func (l *Ledger) AccountInfo(key account.Pubkey, isSigner, isWritable bool) (*runtime.AccountInfo, error) {
	rec, err := l.load(key)
	if err != nil {
		return nil, err
	}
	if isWritable {
		// Writes through the returned view bypass the ledger's own methods,
		// so a writable view counts as touched for Commit.
		rec.dirty = true
	}
	return &runtime.AccountInfo{
		Key:        key,
		Owner:      rec.owner,
		Lamports:   &rec.lamports,
		Data:       &rec.data,
		IsSigner:   isSigner,
		IsWritable: isWritable,
	}, nil
}

// SetAccount seeds an account directly, bypassing the create/transfer
// primitives — used by tests to arrange pre-instruction state.
func (l *Ledger) SetAccount(key account.Pubkey, owner account.Pubkey, lamports uint64, data []byte) {
	rec, _ := l.load(key)
	rec.owner = owner
	rec.lamports = lamports
	rec.data = append([]byte(nil), data...)
	rec.dirty = true
}

func (l *Ledger) SetSlotHash(slot uint64, hash [32]byte) {
	_ = l.db.Update(func(tx *bolt.Tx) error {
		var key [8]byte
		putU64(key[:], slot)
		return tx.Bucket(bucketSlotHash).Put(key[:], hash[:])
	})
}

// Commit persists every account touched this instruction back to bbolt in a
// single transaction — the atomic-rollback shape spec §7 describes: if the
// caller never calls Commit (because the instruction returned an error), no
// mutation is observed on the next Open/load.
func (l *Ledger) Commit() error {
	err := l.db.Update(func(tx *bolt.Tx) error {
		ab := tx.Bucket(bucketAccounts)
		lb := tx.Bucket(bucketLamports)
		ob := tx.Bucket(bucketOwners)
		for key, rec := range l.cache {
			if !rec.dirty {
				continue
			}
			if rec.lamports == 0 && len(rec.data) == 0 {
				_ = ab.Delete(key[:])
				_ = lb.Delete(key[:])
				_ = ob.Delete(key[:])
				continue
			}
			if err := ab.Put(key[:], rec.data); err != nil {
				return err
			}
			var lamBuf [8]byte
			putU64(lamBuf[:], rec.lamports)
			if err := lb.Put(key[:], lamBuf[:]); err != nil {
				return err
			}
			if err := ob.Put(key[:], rec.owner[:]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, rec := range l.cache {
		rec.dirty = false
	}
	return nil
}

// Discard drops uncommitted in-memory mutations, simulating the host
// chain's rollback of a failed instruction (spec §7: "no partial success").
func (l *Ledger) Discard() {
	l.cache = make(map[account.Pubkey]*accountRecord)
}
