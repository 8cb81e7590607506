// Package printing contains the Printing bounded context.
// It composes the printable shipping label and tax invoice for an order.
// Rendering to HTML/PDF and storage live in the infrastructure layer.
package printing
