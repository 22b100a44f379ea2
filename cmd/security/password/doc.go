// Package password provides password hashing and verification for authd.
//
// Digests are self-describing PHC strings that carry the algorithm, its cost
// parameters and the salt, so stored digests keep verifying after the
// configured cost changes. Two algorithms are supported:
//   - pbkdf2-sha256 (default): $pbkdf2-sha256$i=<iter>,l=<keylen>$<salt>$<hash>
//   - argon2id:                $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt>$<hash>
//
// Security notes:
// - Every Hash call draws a fresh random salt; there is no fallback when the entropy source fails.
// - Digest strings are treated as untrusted input during Verify and are validated accordingly.
// - Verification refuses digests whose cost exceeds reasonable bounds.
package password
