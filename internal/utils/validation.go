package utils

import (
	"encoding/base64"
	"regexp"

	"github.com/google/uuid"
)

var (
	// Ledger account ids are shard.realm.num triplets, e.g. "0.0.4859001".
	accountIdRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	// Rate sequence numbers are the decimal sequence assigned by the publication log.
	sequenceNumberRegex = regexp.MustCompile(`^\d+(\.\d+)?$`)
	scheduleIdRegex     = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	base64Regex         = regexp.MustCompile(`^[a-zA-Z0-9+/]*={0,2}$`)
)

// IsValidAccountID checks if the given string is a well-formed ledger account id.
// Note: it does not check that the account exists on the ledger.
func IsValidAccountID(accountId string) bool {
	return accountIdRegex.MatchString(accountId)
}

// IsValidSequenceNumber checks if the given string is a well-formed rate sequence number.
func IsValidSequenceNumber(seq string) bool {
	return seq != "" && sequenceNumberRegex.MatchString(seq)
}

// IsValidScheduleID checks if the given string is a well-formed scheduled-transaction id.
func IsValidScheduleID(scheduleId string) bool {
	return scheduleIdRegex.MatchString(scheduleId)
}

// IsValidSignatureProof checks if the given string is a valid Base64 encoded signature proof.
// Note: it does not verify the signature itself, the ledger does that on schedule execution.
func IsValidSignatureProof(proof string) bool {
	if proof == "" || len(proof)%4 != 0 {
		return false
	}
	if !base64Regex.MatchString(proof) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(proof)
	return err == nil
}

// IsValidIdempotencyKey checks if the given string is a UUID formatted idempotency key.
func IsValidIdempotencyKey(key string) bool {
	_, err := uuid.Parse(key)
	return err == nil
}
