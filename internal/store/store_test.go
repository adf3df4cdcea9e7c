package store_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"claimwire/internal/crypto"
	"claimwire/internal/domain"
	"claimwire/internal/store"
)

func makeIdentity(t *testing.T, fill byte) domain.Identity {
	t.Helper()
	seed := make([]byte, crypto.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	id, err := crypto.IdentityFromSeed(seed)
	if err != nil {
		t.Fatalf("IdentityFromSeed: %v", err)
	}
	return id
}

func makeKeystore(t *testing.T) *store.FileKeystore {
	t.Helper()
	ks, err := store.NewFileKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKeystore: %v", err)
	}
	return ks
}

func TestIdentity_SaveLoad_OK(t *testing.T) {
	var ks domain.Keystore = makeKeystore(t)
	id := makeIdentity(t, 1)

	if err := ks.SaveIdentity("pass", id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	got, err := ks.LoadIdentity("pass", id.Address)
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if got.Address != id.Address || got.SignPub != id.SignPub || got.BoxPub != id.BoxPub {
		t.Fatal("mismatch after load")
	}
	if got.SignPriv != id.SignPriv || got.BoxPriv != id.BoxPriv {
		t.Fatal("private keys mismatch after load")
	}
	if !bytes.Equal(got.Seed, id.Seed) {
		t.Fatal("seed mismatch after load")
	}
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	ks := makeKeystore(t)
	id := makeIdentity(t, 2)

	if err := ks.SaveIdentity("correct", id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if _, err := ks.LoadIdentity("wrong", id.Address); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("got %v, want ErrWrongPassphrase", err)
	}
}

func TestIdentity_Missing_NotFound(t *testing.T) {
	ks := makeKeystore(t)

	if _, err := ks.LoadIdentity("pass", makeIdentity(t, 3).Address); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestIdentity_List_Sorted(t *testing.T) {
	ks := makeKeystore(t)
	for _, fill := range []byte{6, 5} {
		if err := ks.SaveIdentity("pass", makeIdentity(t, fill)); err != nil {
			t.Fatalf("save identity: %v", err)
		}
	}

	got, err := ks.ListIdentities()
	if err != nil {
		t.Fatalf("list identities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d identities, want 2", len(got))
	}
	if got[0] > got[1] {
		t.Fatal("addresses not sorted")
	}
}

func TestContacts_SaveLoadList(t *testing.T) {
	var book domain.ContactBook = store.NewContactFileStore(t.TempDir())

	alice := makeIdentity(t, 1).Public()
	bob := makeIdentity(t, 2).Public()
	for _, pub := range []domain.PublicIdentity{bob, alice} {
		if err := book.SaveContact(pub); err != nil {
			t.Fatalf("save contact: %v", err)
		}
	}

	got, ok, err := book.LoadContact(alice.Address)
	if err != nil || !ok {
		t.Fatalf("load contact: ok=%v err=%v", ok, err)
	}
	if got.BoxPublicKey != alice.BoxPublicKey {
		t.Fatal("box key mismatch after load")
	}

	unknown := domain.Address("cw" + strings.Repeat("0", 64))
	if _, ok, err := book.LoadContact(unknown); err != nil || ok {
		t.Fatalf("unknown contact: ok=%v err=%v", ok, err)
	}

	all, err := book.ListContacts()
	if err != nil {
		t.Fatalf("list contacts: %v", err)
	}
	if len(all) != 2 || all[0].Address > all[1].Address {
		t.Fatalf("bad listing: %+v", all)
	}
}

func TestCursor_NeverMovesBack(t *testing.T) {
	var cur domain.Cursor = store.NewCursorFileStore(t.TempDir())
	addr := makeIdentity(t, 1).Address

	if _, ok, err := cur.LoadCursor(addr); err != nil || ok {
		t.Fatalf("fresh cursor: ok=%v err=%v", ok, err)
	}
	if err := cur.SaveCursor(addr, 100); err != nil {
		t.Fatalf("save cursor: %v", err)
	}
	if err := cur.SaveCursor(addr, 50); err != nil {
		t.Fatalf("save cursor: %v", err)
	}

	at, ok, err := cur.LoadCursor(addr)
	if err != nil || !ok {
		t.Fatalf("load cursor: ok=%v err=%v", ok, err)
	}
	if at != 100 {
		t.Fatalf("cursor = %d, want 100", at)
	}
}
