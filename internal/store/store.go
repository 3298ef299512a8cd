// Package store owns the chart of accounts and the transaction history.
// Accounts and transactions live in memory and persist as CSV files; all
// access happens inside a scoped unit of work.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tallybook-dev/tallybook/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an id or code is already taken.
	ErrDuplicate = errors.New("already exists")
)

const (
	accountsFile     = "accounts.csv"
	transactionsFile = "transactions.csv"
)

// Store holds the ledger data for one data directory.
type Store struct {
	mu  sync.Mutex
	dir string // empty = in-memory only (tests)
	log *zap.Logger

	accounts []*model.Account
	byID     map[string]*model.Account
	byCode   map[string]*model.Account
	txns     []model.Transaction // sorted by (date, id)
	txnIndex map[string]int
}

// New creates an empty in-memory store.
func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		log:      log,
		byID:     make(map[string]*model.Account),
		byCode:   make(map[string]*model.Account),
		txnIndex: make(map[string]int),
	}
}

// Open loads the ledger from a data directory. Missing files mean an empty
// ledger, not an error.
func Open(dir string, log *zap.Logger) (*Store, error) {
	s := New(log)
	s.dir = dir

	if err := s.loadAccounts(); err != nil {
		return nil, err
	}
	if err := s.loadTransactions(); err != nil {
		return nil, err
	}
	s.log.Debug("ledger opened",
		zap.String("dir", dir),
		zap.Int("accounts", len(s.accounts)),
		zap.Int("transactions", len(s.txns)))
	return s, nil
}

// With runs fn inside a scoped unit of work. The unit is released on every
// exit path, including panics in fn.
func (s *Store) With(fn func(*Unit) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Unit{s: s})
}

// Flush writes accounts.csv and transactions.csv. A no-op for in-memory
// stores.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, accountsFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", accountsFile, err)
	}
	defer f.Close()
	if err := WriteAccounts(f, s.accountValues()); err != nil {
		return fmt.Errorf("writing %s: %w", accountsFile, err)
	}

	tf, err := os.Create(filepath.Join(s.dir, transactionsFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", transactionsFile, err)
	}
	defer tf.Close()
	if err := WriteTransactions(tf, s.txns); err != nil {
		return fmt.Errorf("writing %s: %w", transactionsFile, err)
	}
	return nil
}

func (s *Store) loadAccounts() error {
	f, err := os.Open(filepath.Join(s.dir, accountsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", accountsFile, err)
	}
	defer f.Close()

	accounts, err := ReadAccounts(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", accountsFile, err)
	}
	for _, a := range accounts {
		acct := a
		s.accounts = append(s.accounts, &acct)
		s.byID[acct.ID] = &acct
		s.byCode[acct.Code] = &acct
	}
	return nil
}

func (s *Store) loadTransactions() error {
	f, err := os.Open(filepath.Join(s.dir, transactionsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", transactionsFile, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", transactionsFile, err)
	}
	for _, txn := range txns {
		s.txnIndex[txn.ID()] = len(s.txns)
		s.txns = append(s.txns, txn)
	}
	s.sortTxns()
	return nil
}

func (s *Store) accountValues() []model.Account {
	out := make([]model.Account, len(s.accounts))
	for i, a := range s.accounts {
		out[i] = *a
	}
	return out
}

func (s *Store) sortTxns() {
	sort.SliceStable(s.txns, func(i, j int) bool {
		if !s.txns[i].Date().Equal(s.txns[j].Date()) {
			return s.txns[i].Date().Before(s.txns[j].Date())
		}
		return s.txns[i].ID() < s.txns[j].ID()
	})
	for i, txn := range s.txns {
		s.txnIndex[txn.ID()] = i
	}
}

// Unit is one scoped acquisition of the store. It is only valid inside the
// With callback that produced it.
type Unit struct {
	s *Store
}

// Accounts returns all accounts, active and inactive, in insertion order.
func (u *Unit) Accounts() []model.Account {
	return u.s.accountValues()
}

// AccountByID looks up one account.
func (u *Unit) AccountByID(id string) (model.Account, error) {
	a, ok := u.s.byID[id]
	if !ok {
		return model.Account{}, fmt.Errorf("account id %q: %w", id, ErrNotFound)
	}
	return *a, nil
}

// AccountByCode looks up one account by its hierarchical code.
func (u *Unit) AccountByCode(code string) (model.Account, error) {
	a, ok := u.s.byCode[code]
	if !ok {
		return model.Account{}, fmt.Errorf("account code %q: %w", code, ErrNotFound)
	}
	return *a, nil
}

// AccountsByType returns all accounts of one type.
func (u *Unit) AccountsByType(at model.AccountType) []model.Account {
	var out []model.Account
	for _, a := range u.s.accounts {
		if a.Type == at {
			out = append(out, *a)
		}
	}
	return out
}

// AccountChildren returns the direct children of an account.
func (u *Unit) AccountChildren(parentID string) []model.Account {
	var out []model.Account
	for _, a := range u.s.accounts {
		if a.IsChildOf(parentID) {
			out = append(out, *a)
		}
	}
	return out
}

// AddAccount registers a new account. Codes and ids must be unique and the
// parent, when set, must exist.
func (u *Unit) AddAccount(a model.Account) error {
	if _, taken := u.s.byID[a.ID]; taken {
		return fmt.Errorf("account id %q: %w", a.ID, ErrDuplicate)
	}
	if _, taken := u.s.byCode[a.Code]; taken {
		return fmt.Errorf("account code %q: %w", a.Code, ErrDuplicate)
	}
	if a.ParentID != "" {
		if _, ok := u.s.byID[a.ParentID]; !ok {
			return fmt.Errorf("parent account %q: %w", a.ParentID, ErrNotFound)
		}
	}
	acct := a
	u.s.accounts = append(u.s.accounts, &acct)
	u.s.byID[acct.ID] = &acct
	u.s.byCode[acct.Code] = &acct
	u.s.log.Debug("account added", zap.String("code", acct.Code), zap.String("type", string(acct.Type)))
	return nil
}

// UpdateAccount replaces a stored account by id (rename, reparent,
// activate/deactivate). The account itself is never removed.
func (u *Unit) UpdateAccount(a model.Account) error {
	existing, ok := u.s.byID[a.ID]
	if !ok {
		return fmt.Errorf("account id %q: %w", a.ID, ErrNotFound)
	}
	if a.Code != existing.Code {
		if _, taken := u.s.byCode[a.Code]; taken {
			return fmt.Errorf("account code %q: %w", a.Code, ErrDuplicate)
		}
		delete(u.s.byCode, existing.Code)
		u.s.byCode[a.Code] = existing
	}
	*existing = a
	return nil
}

// AddTransaction appends a transaction. Every posting must reference an
// existing, active account.
func (u *Unit) AddTransaction(txn model.Transaction) error {
	if _, taken := u.s.txnIndex[txn.ID()]; taken {
		return fmt.Errorf("transaction id %q: %w", txn.ID(), ErrDuplicate)
	}
	for _, p := range txn.Postings() {
		acct, ok := u.s.byID[p.AccountID]
		if !ok {
			return fmt.Errorf("posting account %q: %w", p.AccountID, ErrNotFound)
		}
		if !acct.Active {
			return fmt.Errorf("posting account %q is inactive", acct.Code)
		}
	}
	u.s.txnIndex[txn.ID()] = len(u.s.txns)
	u.s.txns = append(u.s.txns, txn)
	u.s.sortTxns()
	return nil
}

// UpdateTransaction replaces a stored transaction by id. Dates and postings
// are immutable at the model level; this exists for tag changes.
func (u *Unit) UpdateTransaction(txn model.Transaction) error {
	i, ok := u.s.txnIndex[txn.ID()]
	if !ok {
		return fmt.Errorf("transaction id %q: %w", txn.ID(), ErrNotFound)
	}
	u.s.txns[i] = txn
	return nil
}

// TransactionByID looks up one transaction.
func (u *Unit) TransactionByID(id string) (model.Transaction, error) {
	i, ok := u.s.txnIndex[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction id %q: %w", id, ErrNotFound)
	}
	return u.s.txns[i], nil
}

// TransactionsInRange returns transactions with from <= date <= to, ordered
// by (date, id).
func (u *Unit) TransactionsInRange(from, to time.Time) []model.Transaction {
	from = model.DateOnly(from)
	to = model.DateOnly(to)
	var out []model.Transaction
	for _, txn := range u.s.txns {
		if txn.Date().Before(from) || txn.Date().After(to) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

// TransactionsByAccount returns transactions touching the account.
func (u *Unit) TransactionsByAccount(accountID string) []model.Transaction {
	var out []model.Transaction
	for _, txn := range u.s.txns {
		if txn.HasAccount(accountID) {
			out = append(out, txn)
		}
	}
	return out
}

// TransactionsByTag returns transactions carrying the tag (case-insensitive).
func (u *Unit) TransactionsByTag(tag string) []model.Transaction {
	var out []model.Transaction
	for _, txn := range u.s.txns {
		if txn.HasTag(tag) {
			out = append(out, txn)
		}
	}
	return out
}

// SearchTransactions returns transactions whose description contains the
// query, case-insensitively.
func (u *Unit) SearchTransactions(query string) []model.Transaction {
	needle := strings.ToLower(query)
	var out []model.Transaction
	for _, txn := range u.s.txns {
		if strings.Contains(strings.ToLower(txn.Description()), needle) {
			out = append(out, txn)
		}
	}
	return out
}

// ListTransactions pages through the history ordered by (date, id).
// limit <= 0 means no limit.
func (u *Unit) ListTransactions(offset, limit int) []model.Transaction {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(u.s.txns) {
		return nil
	}
	end := len(u.s.txns)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]model.Transaction, end-offset)
	copy(out, u.s.txns[offset:end])
	return out
}
