// Package scenario compiles a readable YAML description of owners, genesis coins and transfers into
// a signed batch, generating one key per owner.
package scenario

import (
	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// GenesisName is the reserved transaction name of the genesis coins.
const GenesisName = "genesis"

var (
	ErrDuplicateName    = errors.New("transaction name used twice")
	ErrUnknownReference = errors.New("input references an unknown transaction")
	ErrReferenceCycle   = errors.New("transactions reference each other in a cycle")
	ErrNoSigner         = errors.New("no signer for input")
)

type File struct {
	Genesis      []Coin   `yaml:"genesis"`
	Transactions []TxSpec `yaml:"transactions"`
}

type Coin struct {
	Owner string  `yaml:"owner"`
	Value float64 `yaml:"value"`
}

type TxSpec struct {
	Name    string      `yaml:"name"`
	Inputs  []InputSpec `yaml:"inputs"`
	Outputs []Coin      `yaml:"outputs"`
}

type InputSpec struct {
	// Name of the transaction, or genesis, whose output is spent.
	From  string `yaml:"from"`
	Index uint32 `yaml:"index"`
	// Who signs the input. Defaults to the owner of the spent output.
	Signer string `yaml:"signer"`
}

// Scenario is a compiled File.
type Scenario struct {
	Genesis *model.Ledger
	// Signed transactions in file order.
	Batch   []*model.Transaction
	Signers map[string]signature.Signer
	names   map[chainhash.Hash]string
}

// Load reads and builds the scenario at path.
func Load(path, scheme string) (*Scenario, error) {
	var f File
	if err := utils.ReadYamlFile(path, &f); err != nil {
		return nil, err
	}
	return Build(f, scheme)
}

// Name returns the scenario name of a transaction hash, or the hash itself.
func (s *Scenario) Name(h chainhash.Hash) string {
	if n, ok := s.names[h]; ok {
		return n
	}
	return h.String()
}

// Owner returns the owner holding pk, or "unknown".
func (s *Scenario) Owner(pk []byte) string {
	for name, signer := range s.Signers {
		if string(signer.PublicKey()) == string(pk) {
			return name
		}
	}
	return "unknown"
}

type builder struct {
	scheme  string
	specs   map[string]*TxSpec
	built   map[string]*model.Transaction
	owners  map[string][]string
	visit   map[string]bool
	signers map[string]signature.Signer
}

// Build signs every transaction of f. A transaction may spend outputs of any other one in the
// file, wherever it is listed.
func Build(f File, scheme string) (*Scenario, error) {
	b := &builder{
		scheme:  scheme,
		specs:   make(map[string]*TxSpec),
		built:   make(map[string]*model.Transaction),
		owners:  make(map[string][]string),
		visit:   make(map[string]bool),
		signers: make(map[string]signature.Signer),
	}

	genesis := utils.NewTransaction()
	for _, c := range f.Genesis {
		pk, err := b.publicKey(c.Owner)
		if err != nil {
			return nil, err
		}
		utils.AddOutput(genesis, c.Value, pk)
		b.owners[GenesisName] = append(b.owners[GenesisName], c.Owner)
	}
	utils.Finalize(genesis)
	b.built[GenesisName] = genesis

	for i := range f.Transactions {
		spec := &f.Transactions[i]
		if _, exist := b.specs[spec.Name]; exist || spec.Name == GenesisName {
			return nil, errors.Wrapf(ErrDuplicateName, "%q", spec.Name)
		}
		b.specs[spec.Name] = spec
	}

	s := &Scenario{
		Genesis: model.NewLedger(),
		Signers: b.signers,
		names:   map[chainhash.Hash]string{genesis.Hash: GenesisName},
	}
	utils.ApplyTransaction(genesis, s.Genesis)
	for _, spec := range f.Transactions {
		tx, err := b.build(spec.Name)
		if err != nil {
			return nil, err
		}
		s.Batch = append(s.Batch, tx)
		s.names[tx.Hash] = spec.Name
	}
	return s, nil
}

func (b *builder) signer(owner string) (signature.Signer, error) {
	if s, ok := b.signers[owner]; ok {
		return s, nil
	}
	s, err := signature.NewSigner(b.scheme)
	if err != nil {
		return nil, err
	}
	b.signers[owner] = s
	return s, nil
}

func (b *builder) publicKey(owner string) ([]byte, error) {
	s, err := b.signer(owner)
	if err != nil {
		return nil, err
	}
	return s.PublicKey(), nil
}

// build signs the named transaction after everything it spends from.
func (b *builder) build(name string) (*model.Transaction, error) {
	if tx, ok := b.built[name]; ok {
		return tx, nil
	}
	spec, ok := b.specs[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownReference, "%q", name)
	}
	if b.visit[name] {
		return nil, errors.Wrapf(ErrReferenceCycle, "at %q", name)
	}
	b.visit[name] = true

	tx := utils.NewTransaction()
	for _, c := range spec.Outputs {
		pk, err := b.publicKey(c.Owner)
		if err != nil {
			return nil, err
		}
		utils.AddOutput(tx, c.Value, pk)
		b.owners[name] = append(b.owners[name], c.Owner)
	}

	signers := make([]string, len(spec.Inputs))
	for i, in := range spec.Inputs {
		parent, err := b.build(in.From)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %q input %d", name, i)
		}
		utils.AddInput(tx, model.UTXO{PrevTxHash: parent.Hash, Index: in.Index})
		signers[i] = in.Signer
		if signers[i] == "" && int(in.Index) < len(b.owners[in.From]) {
			signers[i] = b.owners[in.From][in.Index]
		}
		if signers[i] == "" {
			return nil, errors.Wrapf(ErrNoSigner, "tx %q input %d", name, i)
		}
	}
	for i, owner := range signers {
		s, err := b.signer(owner)
		if err != nil {
			return nil, err
		}
		if err := utils.SignInput(tx, i, s.Sign); err != nil {
			return nil, err
		}
	}

	b.built[name] = utils.Finalize(tx)
	return tx, nil
}
