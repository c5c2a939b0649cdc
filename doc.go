// Package shop is a small e-commerce backend: account lifecycle with email
// verification and password reset, JWT access/refresh sessions, a product
// catalog with reviews and orders, object-storage uploads, and payment
// gateway integration, all persisted in MongoDB and exposed as a JSON REST
// API through the rest subpackage.
package shop
