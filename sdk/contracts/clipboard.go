package contracts

// FileClipboard places exported file paths on the system clipboard so the user
// can paste them into a DAW or file manager.
type FileClipboard interface {
	OfferFiles(paths ...string) error
}
