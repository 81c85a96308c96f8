// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (numbers, tokens, URIs, account records) and
// contracts (interfaces) only.
package domain
