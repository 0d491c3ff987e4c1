// Package seal defines the encryption capability used before a blob is
// published: encryption identifier generation and the Encryptor contract
// "given (threshold, policy package, identifier, plaintext) return ciphertext
// bound to that identifier and policy".
//
// # Identifiers
//
// An encryption identifier is hex(policyObjectBytes || nonce) where the nonce
// is NonceSize bytes from crypto/rand, so identical files never share an
// identifier.
//
// # Local sealer
//
// LocalSealer is an in-process stand-in for the external threshold service:
//
//  1. A random 32-byte data key is generated.
//  2. The plaintext is sealed with AES-256-GCM under HKDF(dataKey, package||id).
//  3. The data key is split with Shamir secret sharing into one share per key
//     server; any Threshold shares recover it.
//  4. Each share is wrapped with AES-256-GCM under a per-server key derived
//     from the sealer seed and the server object id.
//
// The encrypted object is serialized as JSON (see EncryptedObject).
package seal
