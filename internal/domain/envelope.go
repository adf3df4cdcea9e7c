package domain

// EncryptedMessage is the wire envelope: the encrypted payload plus the
// metadata a carrier and the receiver need. Hash covers
// ciphertext‖nonce‖createdAt and Signature covers Hash, so carriers can
// screen envelopes for tampering without being able to read them.
//
// MessageID, ReceivedAt, InReplyTo and References are transport/threading
// metadata. They are deliberately outside the hash input: carriers may
// attach or rewrite them, and receivers must not treat them as
// authenticated.
type EncryptedMessage struct {
	MessageID  string   `json:"messageId,omitempty"`
	ReceivedAt int64    `json:"receivedAt,omitempty"`
	InReplyTo  string   `json:"inReplyTo,omitempty"`
	References []string `json:"references,omitempty"`

	Ciphertext string `json:"message"` // hex
	Nonce      string `json:"nonce"`   // hex, same encoding as Ciphertext
	CreatedAt  int64  `json:"createdAt"`

	Hash      Hash      `json:"hash"`
	Signature Signature `json:"signature"`

	Receiver           Address      `json:"receiverAddress"`
	Sender             Address      `json:"senderAddress"`
	SenderBoxPublicKey BoxPublicKey `json:"senderBoxPublicKey"`
}
