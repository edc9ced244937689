// README: Common identifier type used across modules.
package types

// ID is an opaque document identifier (Firestore doc id).
type ID string
