// Package generation provides the boundary interface for producing flashcard
// proposals from source text via an external AI completion service. It
// abstracts the details of the provider integration, allowing the service
// layer to generate flashcards without coupling to a specific provider.
package generation
