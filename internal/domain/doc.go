// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, flashcards, AI-proposed flashcard
// proposals, and the audit records produced by generation attempts. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
