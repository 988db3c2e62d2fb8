package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/grocerlink/payment-service/pkg/errs"
)

const MaxProofFileSize = 5 * 1024 * 1024

var allowedProofMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// PayeeDetails is displayed read-only: the receiving merchant reconciles
// incoming transfers by exact amount and identifier, so neither field is
// user-editable.
type PayeeDetails struct {
	Handle string
	Amount int64
}

type ProofFile struct {
	Name     string
	Size     int64
	MimeType string
	Content  []byte
	StoreRef string
}

type ProofOfTransfer struct {
	Reference  string
	Amount     int64
	Payee      PayeeDetails
	Files      []ProofFile
	UploadedAt int64
}

type FileStore interface {
	Upload(name string, mimeType string, content []byte) (string, error)
}

// ProofCollector validates evidence files one at a time. A rejected file
// never discards previously accepted ones.
type ProofCollector struct {
	payee    PayeeDetails
	accepted []ProofFile
}

func CreateProofCollector(payee PayeeDetails) *ProofCollector {
	return &ProofCollector{payee: payee}
}

func (p *ProofCollector) Payee() PayeeDetails {
	return p.payee
}

func (p *ProofCollector) AddFile(name string, size int64, mimeType string, content []byte) error {
	if size > MaxProofFileSize {
		return errs.ErrFileTooLarge
	}

	if _, ok := allowedProofMimeTypes[mimeType]; !ok {
		return errs.ErrUnsupportedFileType
	}

	p.accepted = append(p.accepted, ProofFile{
		Name:     name,
		Size:     size,
		MimeType: mimeType,
		Content:  content,
	})

	return nil
}

func (p *ProofCollector) AcceptedFiles() []ProofFile {
	return p.accepted
}

// Submit uploads the accepted files and packages the proof. The reference is
// generated locally; verification is a downstream merchant action.
func (p *ProofCollector) Submit(store FileStore) (ProofOfTransfer, error) {
	if len(p.accepted) == 0 {
		return ProofOfTransfer{}, errs.ErrProofFilesRequired
	}

	for idx := range p.accepted {
		ref, err := store.Upload(p.accepted[idx].Name, p.accepted[idx].MimeType, p.accepted[idx].Content)
		if err != nil {
			return ProofOfTransfer{}, err
		}
		p.accepted[idx].StoreRef = ref
	}

	reference, err := uuid.NewV7()
	if err != nil {
		return ProofOfTransfer{}, err
	}

	return ProofOfTransfer{
		Reference:  "proof_" + reference.String(),
		Amount:     p.payee.Amount,
		Payee:      p.payee,
		Files:      p.accepted,
		UploadedAt: time.Now().Unix(),
	}, nil
}
