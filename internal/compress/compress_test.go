package compress_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"claimwire/internal/compress"
	"claimwire/internal/domain"
)

func hashN(n byte) domain.Hash {
	return domain.Hash(fmt.Sprintf("0x%064x", n))
}

func addrN(n byte) domain.Address {
	return domain.Address(domain.AddressPrefix + fmt.Sprintf("%064x", n))
}

func sigN(n byte) domain.Signature {
	return domain.Signature(fmt.Sprintf("0x%0128x", n))
}

func makeClaim(owner domain.Address) domain.Claim {
	return domain.Claim{
		CTypeHash: hashN(1),
		Owner:     owner,
		Contents:  map[string]any{"name": "Alice", "age": float64(29)},
	}
}

func makeRequest(owner domain.Address) domain.RequestForAttestation {
	return domain.RequestForAttestation{
		Claim:            makeClaim(owner),
		Legitimations:    []domain.AttestedClaim{},
		DelegationID:     nil,
		RootHash:         hashN(2),
		ClaimerSignature: sigN(1),
	}
}

func makeCredential(claimer, attester domain.Address) domain.AttestedClaim {
	return domain.AttestedClaim{
		Request: makeRequest(claimer),
		Attestation: domain.Attestation{
			ClaimHash: hashN(2),
			CTypeHash: hashN(1),
			Owner:     attester,
			Revoked:   false,
		},
	}
}

func makeQuote() domain.Quote {
	return domain.Quote{
		AttesterAddress:    addrN(3),
		CTypeHash:          hashN(1),
		Cost:               domain.CostBreakdown{Gross: 110, Net: 100, Tax: 10},
		Currency:           "EUR",
		TermsAndConditions: "https://attester.example/terms",
		Timeframe:          1700000000000,
	}
}

// wireArity marshals v and asserts its wire form is an array of want
// elements.
func wireArity(t *testing.T, v any, want int) []json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		t.Fatalf("wire form is not an array: %v", err)
	}
	if len(elems) != want {
		t.Fatalf("wire arity: want %d, got %d", want, len(elems))
	}
	return elems
}

func TestClaimRoundTrip(t *testing.T) {
	claim := makeClaim(addrN(1))

	cc, err := compress.CompressClaim(claim)
	if err != nil {
		t.Fatalf("CompressClaim: %v", err)
	}
	elems := wireArity(t, cc, 3)
	// Position 0 is the cType reference and position 1 the owner; this order
	// is the wire contract.
	if string(elems[0]) != `"`+string(claim.CTypeHash)+`"` {
		t.Fatalf("element 0: want cTypeHash, got %s", elems[0])
	}
	if string(elems[1]) != `"`+string(claim.Owner)+`"` {
		t.Fatalf("element 1: want owner, got %s", elems[1])
	}

	b, err := json.Marshal(cc)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	got, err := compress.DecompressClaim(b)
	if err != nil {
		t.Fatalf("DecompressClaim: %v", err)
	}
	if !reflect.DeepEqual(got, claim) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, claim)
	}
}

func TestCompressClaimRejectsMissingFields(t *testing.T) {
	base := makeClaim(addrN(1))

	noCType := base
	noCType.CTypeHash = ""
	if _, err := compress.CompressClaim(noCType); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("missing cTypeHash: want ErrMalformedRecord, got %v", err)
	}

	badOwner := base
	badOwner.Owner = "not-an-address"
	if _, err := compress.CompressClaim(badOwner); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("bad owner: want ErrMalformedRecord, got %v", err)
	}

	noContents := base
	noContents.Contents = nil
	if _, err := compress.CompressClaim(noContents); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("missing contents: want ErrMalformedRecord, got %v", err)
	}
}

func TestPartialClaimRoundTrip_NullPlaceholders(t *testing.T) {
	partial := domain.PartialClaim{CTypeHash: hashN(1)}

	cc, err := compress.CompressPartialClaim(partial)
	if err != nil {
		t.Fatalf("CompressPartialClaim: %v", err)
	}
	elems := wireArity(t, cc, 3)
	if string(elems[1]) != "null" || string(elems[2]) != "null" {
		t.Fatalf("optional positions must be null placeholders, got %s and %s", elems[1], elems[2])
	}

	b, _ := json.Marshal(cc)
	got, err := compress.DecompressPartialClaim(b)
	if err != nil {
		t.Fatalf("DecompressPartialClaim: %v", err)
	}
	if !reflect.DeepEqual(got, partial) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, partial)
	}
}

func TestAttestationRoundTrip_RevokedFalsePreserved(t *testing.T) {
	delegation := hashN(9)
	for _, att := range []domain.Attestation{
		{ClaimHash: hashN(2), CTypeHash: hashN(1), Owner: addrN(3), Revoked: false},
		{ClaimHash: hashN(2), CTypeHash: hashN(1), Owner: addrN(3), Revoked: true, DelegationID: &delegation},
	} {
		ca, err := compress.CompressAttestation(att)
		if err != nil {
			t.Fatalf("CompressAttestation: %v", err)
		}
		wireArity(t, ca, 5)

		b, _ := json.Marshal(ca)
		got, err := compress.DecompressAttestation(b)
		if err != nil {
			t.Fatalf("DecompressAttestation: %v", err)
		}
		if !reflect.DeepEqual(got, att) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, att)
		}
		if got.Revoked != att.Revoked {
			t.Fatalf("revoked not preserved: want %v", att.Revoked)
		}
	}
}

func TestDecompressAttestationArityMismatch(t *testing.T) {
	four := fmt.Sprintf(`[%q,%q,%q,false]`, hashN(2), hashN(1), addrN(3))
	six := fmt.Sprintf(`[%q,%q,%q,false,null,"extra"]`, hashN(2), hashN(1), addrN(3))

	if _, err := compress.DecompressAttestation([]byte(four)); !errors.Is(err, compress.ErrArrayShape) {
		t.Fatalf("arity 4: want ErrArrayShape, got %v", err)
	}
	if _, err := compress.DecompressAttestation([]byte(six)); !errors.Is(err, compress.ErrArrayShape) {
		t.Fatalf("arity 6: want ErrArrayShape, got %v", err)
	}
	if _, err := compress.DecompressAttestation([]byte(`{"claimHash":"x"}`)); !errors.Is(err, compress.ErrArrayShape) {
		t.Fatalf("non-array: want ErrArrayShape, got %v", err)
	}
}

func TestAttestationDelegationIDMustBeNullOrHash(t *testing.T) {
	bad := domain.Hash("0xnot-a-hash")
	att := domain.Attestation{
		ClaimHash: hashN(2), CTypeHash: hashN(1), Owner: addrN(3), DelegationID: &bad,
	}
	if _, err := compress.CompressAttestation(att); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("compress: want ErrMalformedRecord, got %v", err)
	}

	tuple := fmt.Sprintf(`[%q,%q,%q,false,"garbage"]`, hashN(2), hashN(1), addrN(3))
	if _, err := compress.DecompressAttestation([]byte(tuple)); !errors.Is(err, compress.ErrArrayShape) {
		t.Fatalf("decompress: want ErrArrayShape, got %v", err)
	}
}

func TestRequestForAttestationRoundTrip(t *testing.T) {
	req := makeRequest(addrN(1))
	req.Legitimations = []domain.AttestedClaim{makeCredential(addrN(1), addrN(3))}

	cr, err := compress.CompressRequestForAttestation(req)
	if err != nil {
		t.Fatalf("CompressRequestForAttestation: %v", err)
	}
	wireArity(t, cr, 5)

	b, _ := json.Marshal(cr)
	got, err := compress.DecompressRequestForAttestation(b)
	if err != nil {
		t.Fatalf("DecompressRequestForAttestation: %v", err)
	}
	if !reflect.DeepEqual(got, req) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, req)
	}
}

func TestCompressRequestForAttestationRejectsBadNested(t *testing.T) {
	req := makeRequest(addrN(1))
	req.Claim.Owner = ""
	if _, err := compress.CompressRequestForAttestation(req); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("bad nested claim: want ErrMalformedRecord, got %v", err)
	}

	req = makeRequest(addrN(1))
	req.ClaimerSignature = ""
	if _, err := compress.CompressRequestForAttestation(req); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("missing claimerSignature: want ErrMalformedRecord, got %v", err)
	}
}

func TestQuoteFamilyRoundTrip(t *testing.T) {
	quote := makeQuote()
	cq, err := compress.CompressQuote(quote)
	if err != nil {
		t.Fatalf("CompressQuote: %v", err)
	}
	elems := wireArity(t, cq, 6)
	// Cost is itself a nested tuple.
	wireArity(t, json.RawMessage(elems[2]), 3)

	b, _ := json.Marshal(cq)
	gotQuote, err := compress.DecompressQuote(b)
	if err != nil {
		t.Fatalf("DecompressQuote: %v", err)
	}
	if !reflect.DeepEqual(gotQuote, quote) {
		t.Fatalf("quote round trip mismatch:\n got %+v\nwant %+v", gotQuote, quote)
	}

	signed := domain.QuoteAttesterSigned{Quote: quote, AttesterSignature: sigN(2)}
	cs, err := compress.CompressQuoteAttesterSigned(signed)
	if err != nil {
		t.Fatalf("CompressQuoteAttesterSigned: %v", err)
	}
	wireArity(t, cs, 7)
	b, _ = json.Marshal(cs)
	gotSigned, err := compress.DecompressQuoteAttesterSigned(b)
	if err != nil {
		t.Fatalf("DecompressQuoteAttesterSigned: %v", err)
	}
	if !reflect.DeepEqual(gotSigned, signed) {
		t.Fatalf("signed quote round trip mismatch:\n got %+v\nwant %+v", gotSigned, signed)
	}

	agreement := domain.QuoteAgreement{
		QuoteAttesterSigned: signed,
		ClaimerSignature:    sigN(3),
		RootHash:            hashN(2),
	}
	ca, err := compress.CompressQuoteAgreement(agreement)
	if err != nil {
		t.Fatalf("CompressQuoteAgreement: %v", err)
	}
	wireArity(t, ca, 9)
	b, _ = json.Marshal(ca)
	gotAgreement, err := compress.DecompressQuoteAgreement(b)
	if err != nil {
		t.Fatalf("DecompressQuoteAgreement: %v", err)
	}
	if !reflect.DeepEqual(gotAgreement, agreement) {
		t.Fatalf("agreement round trip mismatch:\n got %+v\nwant %+v", gotAgreement, agreement)
	}
}

func TestCompressQuoteRejects(t *testing.T) {
	q := makeQuote()
	q.Currency = ""
	if _, err := compress.CompressQuote(q); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("missing currency: want ErrMalformedRecord, got %v", err)
	}

	q = makeQuote()
	q.Timeframe = 0
	if _, err := compress.CompressQuote(q); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("zero timeframe: want ErrMalformedRecord, got %v", err)
	}
}

func TestDelegationDataRoundTrip(t *testing.T) {
	parent := hashN(7)
	for _, d := range []domain.DelegationData{
		{
			Account:     addrN(4),
			ID:          hashN(8),
			Permissions: []domain.Permission{domain.PermissionAttest},
		},
		{
			Account:     addrN(4),
			ID:          hashN(8),
			ParentID:    &parent,
			Permissions: []domain.Permission{domain.PermissionAttest, domain.PermissionDelegate},
			IsPCR:       true,
		},
	} {
		cd, err := compress.CompressDelegationData(d)
		if err != nil {
			t.Fatalf("CompressDelegationData: %v", err)
		}
		wireArity(t, cd, 5)

		b, _ := json.Marshal(cd)
		got, err := compress.DecompressDelegationData(b)
		if err != nil {
			t.Fatalf("DecompressDelegationData: %v", err)
		}
		if !reflect.DeepEqual(got, d) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, d)
		}
	}
}

func TestDelegationDataRejectsUnknownPermission(t *testing.T) {
	d := domain.DelegationData{
		Account:     addrN(4),
		ID:          hashN(8),
		Permissions: []domain.Permission{"rule-the-world"},
	}
	if _, err := compress.CompressDelegationData(d); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("compress: want ErrMalformedRecord, got %v", err)
	}

	tuple := fmt.Sprintf(`[%q,%q,null,["rule-the-world"],false]`, addrN(4), hashN(8))
	if _, err := compress.DecompressDelegationData([]byte(tuple)); !errors.Is(err, compress.ErrArrayShape) {
		t.Fatalf("decompress: want ErrArrayShape, got %v", err)
	}
}

func TestTermsRoundTrip(t *testing.T) {
	delegation := hashN(9)
	quote := domain.QuoteAttesterSigned{Quote: makeQuote(), AttesterSignature: sigN(2)}

	full := domain.Terms{
		Claim:              domain.PartialClaim{CTypeHash: hashN(1), Contents: map[string]any{"name": "Alice"}},
		Legitimations:      []domain.AttestedClaim{makeCredential(addrN(1), addrN(3))},
		DelegationID:       &delegation,
		Quote:              &quote,
		PrerequisiteClaims: []domain.PartialClaim{{CTypeHash: hashN(5)}},
	}
	minimal := domain.Terms{
		Claim:         domain.PartialClaim{CTypeHash: hashN(1)},
		Legitimations: []domain.AttestedClaim{},
	}

	for _, terms := range []domain.Terms{full, minimal} {
		ct, err := compress.CompressTerms(terms)
		if err != nil {
			t.Fatalf("CompressTerms: %v", err)
		}
		wireArity(t, ct, 5)

		b, _ := json.Marshal(ct)
		got, err := compress.DecompressTerms(b)
		if err != nil {
			t.Fatalf("DecompressTerms: %v", err)
		}
		if !reflect.DeepEqual(got, terms) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, terms)
		}
	}
}

func TestCombinedPresentationRoundTrip(t *testing.T) {
	pres := domain.CombinedPresentation{
		CTypeHashes: []domain.Hash{hashN(1), hashN(5)},
		Proof:       json.RawMessage(`{"combined":"b64proof","c":3}`),
	}
	cp, err := compress.CompressCombinedPresentation(pres)
	if err != nil {
		t.Fatalf("CompressCombinedPresentation: %v", err)
	}
	wireArity(t, cp, 2)

	b, _ := json.Marshal(cp)
	got, err := compress.DecompressCombinedPresentation(b)
	if err != nil {
		t.Fatalf("DecompressCombinedPresentation: %v", err)
	}
	if !reflect.DeepEqual(got, pres) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, pres)
	}

	if _, err := compress.CompressCombinedPresentation(domain.CombinedPresentation{CTypeHashes: pres.CTypeHashes}); !errors.Is(err, compress.ErrMalformedRecord) {
		t.Fatalf("missing proof: want ErrMalformedRecord, got %v", err)
	}
}

func TestSessionAndCTypeRequestRoundTrip(t *testing.T) {
	session := domain.AttestationSession{SessionID: "sess-1", Nonce: "n-1"}
	cs, err := compress.CompressAttestationSession(session)
	if err != nil {
		t.Fatalf("CompressAttestationSession: %v", err)
	}
	b, _ := json.Marshal(cs)
	gotSession, err := compress.DecompressAttestationSession(b)
	if err != nil {
		t.Fatalf("DecompressAttestationSession: %v", err)
	}
	if gotSession != session {
		t.Fatalf("session round trip mismatch: got %+v", gotSession)
	}

	req := domain.CTypeRequest{CTypeHashes: []domain.Hash{hashN(1)}, AllowPE: true}
	cr, err := compress.CompressCTypeRequest(req)
	if err != nil {
		t.Fatalf("CompressCTypeRequest: %v", err)
	}
	b, _ = json.Marshal(cr)
	gotReq, err := compress.DecompressCTypeRequest(b)
	if err != nil {
		t.Fatalf("DecompressCTypeRequest: %v", err)
	}
	if !reflect.DeepEqual(gotReq, req) {
		t.Fatalf("ctype request round trip mismatch: got %+v", gotReq)
	}
}

func TestDelegationExchangeRoundTrips(t *testing.T) {
	data := domain.DelegationData{
		Account:     addrN(4),
		ID:          hashN(8),
		Permissions: []domain.Permission{domain.PermissionAttest},
	}

	proposal := domain.DelegationProposal{
		DelegationData:   data,
		InviterSignature: sigN(4),
		Metadata:         map[string]any{"note": "welcome aboard"},
	}
	cp, err := compress.CompressDelegationProposal(proposal)
	if err != nil {
		t.Fatalf("CompressDelegationProposal: %v", err)
	}
	wireArity(t, cp, 3)
	b, _ := json.Marshal(cp)
	gotProposal, err := compress.DecompressDelegationProposal(b)
	if err != nil {
		t.Fatalf("DecompressDelegationProposal: %v", err)
	}
	if !reflect.DeepEqual(gotProposal, proposal) {
		t.Fatalf("proposal round trip mismatch:\n got %+v\nwant %+v", gotProposal, proposal)
	}

	approval := domain.DelegationApproval{
		DelegationData:   data,
		InviterSignature: sigN(4),
		InviteeSignature: sigN(5),
	}
	ca, err := compress.CompressDelegationApproval(approval)
	if err != nil {
		t.Fatalf("CompressDelegationApproval: %v", err)
	}
	b, _ = json.Marshal(ca)
	gotApproval, err := compress.DecompressDelegationApproval(b)
	if err != nil {
		t.Fatalf("DecompressDelegationApproval: %v", err)
	}
	if !reflect.DeepEqual(gotApproval, approval) {
		t.Fatalf("approval round trip mismatch:\n got %+v\nwant %+v", gotApproval, approval)
	}

	created := domain.DelegationCreated{DelegationID: hashN(8), IsPCR: true}
	cc, err := compress.CompressDelegationCreated(created)
	if err != nil {
		t.Fatalf("CompressDelegationCreated: %v", err)
	}
	b, _ = json.Marshal(cc)
	gotCreated, err := compress.DecompressDelegationCreated(b)
	if err != nil {
		t.Fatalf("DecompressDelegationCreated: %v", err)
	}
	if gotCreated != created {
		t.Fatalf("created round trip mismatch: got %+v", gotCreated)
	}
}

func TestCompressIsStableOverDecompress(t *testing.T) {
	// compress(decompress(t)) == t for a well-formed tuple.
	req := makeRequest(addrN(1))
	cr, err := compress.CompressRequestForAttestation(req)
	if err != nil {
		t.Fatalf("CompressRequestForAttestation: %v", err)
	}
	first, err := json.Marshal(cr)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}

	decoded, err := compress.DecompressRequestForAttestation(first)
	if err != nil {
		t.Fatalf("DecompressRequestForAttestation: %v", err)
	}
	cr2, err := compress.CompressRequestForAttestation(decoded)
	if err != nil {
		t.Fatalf("re-CompressRequestForAttestation: %v", err)
	}
	second, err := json.Marshal(cr2)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("wire form is not stable:\n first %s\nsecond %s", first, second)
	}
}
