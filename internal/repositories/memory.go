package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avoronova/bankledger/internal/models"
	"github.com/avoronova/bankledger/internal/services"
)

// MemoryStore is the in-memory implementation of the repository contracts
// and the Unit of Work, used by tests in place of Postgres. Do clones the
// committed state, runs the scope against the clone and swaps it back in on
// success, so rollback genuinely discards every write of a failed scope.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	clients       map[uuid.UUID]models.Client
	loginIndex    map[string]uuid.UUID
	accounts      map[int64]models.Account
	transactions  []models.Transaction
	nextAccountID int64
	nextTxnID     int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memoryState{
		clients:       map[uuid.UUID]models.Client{},
		loginIndex:    map[string]uuid.UUID{},
		accounts:      map[int64]models.Account{},
		nextAccountID: 1,
		nextTxnID:     1,
	}}
}

func (s *memoryState) clone() *memoryState {
	next := &memoryState{
		clients:       make(map[uuid.UUID]models.Client, len(s.clients)),
		loginIndex:    make(map[string]uuid.UUID, len(s.loginIndex)),
		accounts:      make(map[int64]models.Account, len(s.accounts)),
		transactions:  make([]models.Transaction, len(s.transactions)),
		nextAccountID: s.nextAccountID,
		nextTxnID:     s.nextTxnID,
	}
	for id, c := range s.clients {
		next.clients[id] = c
	}
	for login, id := range s.loginIndex {
		next.loginIndex[login] = id
	}
	for id, a := range s.accounts {
		next.accounts[id] = a
	}
	copy(next.transactions, s.transactions)
	return next
}

// Do implements services.UnitOfWork against a cloned state.
func (s *MemoryStore) Do(ctx context.Context, fn func(r services.Repositories) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := s.state.clone()
	repos := services.Repositories{
		Clients:      &memoryClientRepository{state: scratch},
		Accounts:     &memoryAccountRepository{state: scratch},
		Transactions: &memoryTransactionRepository{state: scratch},
	}
	if err := fn(repos); err != nil {
		return err
	}
	s.state = scratch
	return nil
}

// Clients returns a repository view over committed state.
func (s *MemoryStore) Clients() services.ClientRepository {
	return &memoryClientRepository{store: s}
}

// Accounts returns a repository view over committed state.
func (s *MemoryStore) Accounts() services.AccountRepository {
	return &memoryAccountRepository{store: s}
}

// Transactions returns a repository view over committed state.
func (s *MemoryStore) Transactions() services.TransactionRepository {
	return &memoryTransactionRepository{store: s}
}

// memoryClientRepository operates on a scope's scratch state when state is
// set, otherwise on the store's committed state under its lock.
type memoryClientRepository struct {
	store *MemoryStore
	state *memoryState
}

func (r *memoryClientRepository) get(fn func(s *memoryState)) {
	if r.state != nil {
		fn(r.state)
		return
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	fn(r.store.state)
}

func (r *memoryClientRepository) Add(ctx context.Context, client *models.Client) (err error) {
	r.get(func(s *memoryState) {
		if _, taken := s.loginIndex[client.Login]; taken {
			err = models.ErrLoginTaken
			return
		}
		if client.ID == uuid.Nil {
			client.ID = uuid.New()
		}
		s.clients[client.ID] = *client
		s.loginIndex[client.Login] = client.ID
	})
	return err
}

func (r *memoryClientRepository) GetByID(ctx context.Context, id uuid.UUID) (client *models.Client, err error) {
	r.get(func(s *memoryState) {
		if c, ok := s.clients[id]; ok {
			client = &c
		}
	})
	return client, nil
}

func (r *memoryClientRepository) GetByLogin(ctx context.Context, login string) (client *models.Client, err error) {
	r.get(func(s *memoryState) {
		if id, ok := s.loginIndex[login]; ok {
			c := s.clients[id]
			client = &c
		}
	})
	return client, nil
}

func (r *memoryClientRepository) Update(ctx context.Context, client *models.Client) (err error) {
	r.get(func(s *memoryState) {
		old, ok := s.clients[client.ID]
		if !ok {
			return
		}
		if old.Login != client.Login {
			if _, taken := s.loginIndex[client.Login]; taken {
				err = models.ErrLoginTaken
				return
			}
			delete(s.loginIndex, old.Login)
			s.loginIndex[client.Login] = client.ID
		}
		s.clients[client.ID] = *client
	})
	return err
}

type memoryAccountRepository struct {
	store *MemoryStore
	state *memoryState
}

func (r *memoryAccountRepository) get(fn func(s *memoryState)) {
	if r.state != nil {
		fn(r.state)
		return
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	fn(r.store.state)
}

func (r *memoryAccountRepository) Add(ctx context.Context, account *models.Account) error {
	r.get(func(s *memoryState) {
		account.ID = s.nextAccountID
		s.nextAccountID++
		s.accounts[account.ID] = *account
	})
	return nil
}

func (r *memoryAccountRepository) GetByID(ctx context.Context, id int64) (account *models.Account, err error) {
	r.get(func(s *memoryState) {
		if a, ok := s.accounts[id]; ok {
			account = &a
		}
	})
	return account, nil
}

func (r *memoryAccountRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (accounts []models.Account, err error) {
	accounts = []models.Account{}
	r.get(func(s *memoryState) {
		for _, a := range s.accounts {
			if a.ClientID == clientID {
				accounts = append(accounts, a)
			}
		}
	})
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *memoryAccountRepository) Update(ctx context.Context, account *models.Account) error {
	r.get(func(s *memoryState) {
		if _, ok := s.accounts[account.ID]; ok {
			s.accounts[account.ID] = *account
		}
	})
	return nil
}

type memoryTransactionRepository struct {
	store *MemoryStore
	state *memoryState
}

func (r *memoryTransactionRepository) get(fn func(s *memoryState)) {
	if r.state != nil {
		fn(r.state)
		return
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	fn(r.store.state)
}

func (r *memoryTransactionRepository) Add(ctx context.Context, txn *models.Transaction) error {
	r.get(func(s *memoryState) {
		txn.ID = s.nextTxnID
		s.nextTxnID++
		if txn.Timestamp.IsZero() {
			txn.Timestamp = time.Now().UTC()
		}
		s.transactions = append(s.transactions, *txn)
	})
	return nil
}

func (r *memoryTransactionRepository) GetByAccountID(ctx context.Context, accountID int64) (txns []models.Transaction, err error) {
	txns = []models.Transaction{}
	r.get(func(s *memoryState) {
		for _, t := range s.transactions {
			if t.AccountID == accountID {
				txns = append(txns, t)
			}
		}
	})
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Timestamp.Equal(txns[j].Timestamp) {
			return txns[i].ID < txns[j].ID
		}
		return txns[i].Timestamp.Before(txns[j].Timestamp)
	})
	return txns, nil
}
