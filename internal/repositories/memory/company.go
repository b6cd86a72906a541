package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
)

func (s *Store) CreateCompany(ctx context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.companies {
		if existing.Slug == company.Slug {
			return fmt.Errorf("%w: company slug %s already exists", apperrors.ErrDuplicate, company.Slug)
		}
	}
	s.companies[company.ID] = company
	return nil
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	company, ok := s.companies[companyID]
	if !ok {
		return nil, fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
	}
	return &company, nil
}

func (s *Store) UpdateCompany(ctx context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[company.ID]; !ok {
		return fmt.Errorf("%w: company %s", apperrors.ErrNotFound, company.ID)
	}
	s.companies[company.ID] = company
	return nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	companies := make([]domain.Company, 0, len(s.companies))
	for _, company := range s.companies {
		companies = append(companies, company)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	return companies, nil
}

func (s *Store) ListCompaniesForUser(ctx context.Context, userID string) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var companies []domain.Company
	for companyID, members := range s.members {
		member, ok := members[userID]
		if !ok || member.Status != domain.MemberActive {
			continue
		}
		if company, ok := s.companies[companyID]; ok && company.IsActive {
			companies = append(companies, company)
		}
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	return companies, nil
}

func (s *Store) UpsertMember(ctx context.Context, member domain.CompanyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[member.CompanyID]; !ok {
		return fmt.Errorf("%w: company %s", apperrors.ErrNotFound, member.CompanyID)
	}
	if s.members[member.CompanyID] == nil {
		s.members[member.CompanyID] = make(map[string]domain.CompanyMember)
	}
	s.members[member.CompanyID][member.UserID] = member
	return nil
}

func (s *Store) GetMember(ctx context.Context, companyID, userID string) (*domain.CompanyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.members[companyID][userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s is not a member of company %s", apperrors.ErrNotFound, userID, companyID)
	}
	return &member, nil
}

func (s *Store) ListMembers(ctx context.Context, companyID string) ([]domain.CompanyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]domain.CompanyMember, 0, len(s.members[companyID]))
	for _, member := range s.members[companyID] {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Email < members[j].Email })
	return members, nil
}

func (s *Store) ListMembershipsForUser(ctx context.Context, userID string) ([]domain.CompanyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var memberships []domain.CompanyMember
	for _, members := range s.members {
		if member, ok := members[userID]; ok {
			memberships = append(memberships, member)
		}
	}
	sort.Slice(memberships, func(i, j int) bool { return memberships[i].CompanyID < memberships[j].CompanyID })
	return memberships, nil
}

func (s *Store) RemoveMember(ctx context.Context, companyID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[companyID][userID]; !ok {
		return fmt.Errorf("%w: user %s is not a member of company %s", apperrors.ErrNotFound, userID, companyID)
	}
	delete(s.members[companyID], userID)
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.CompanyID == account.CompanyID && existing.Code == account.Code {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *Store) GetAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok || account.CompanyID != companyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (s *Store) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var accounts []domain.Account
	for _, account := range s.accounts {
		if account.CompanyID == companyID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *Store) CreateContact(ctx context.Context, contact domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.ID] = contact
	return nil
}

func (s *Store) GetContact(ctx context.Context, companyID, contactID string) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[contactID]
	if !ok || contact.CompanyID != companyID {
		return nil, fmt.Errorf("%w: contact %s", apperrors.ErrNotFound, contactID)
	}
	return &contact, nil
}

func (s *Store) ListContacts(ctx context.Context, companyID string, contactType domain.ContactType) ([]domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var contacts []domain.Contact
	for _, contact := range s.contacts {
		if contact.CompanyID != companyID {
			continue
		}
		// "both" contacts satisfy either side of the filter.
		if contactType != "" && contact.Type != contactType && contact.Type != domain.ContactBoth {
			continue
		}
		contacts = append(contacts, contact)
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].Name < contacts[j].Name })
	return contacts, nil
}

func (s *Store) DeleteContact(ctx context.Context, companyID, contactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[contactID]
	if !ok || contact.CompanyID != companyID {
		return fmt.Errorf("%w: contact %s", apperrors.ErrNotFound, contactID)
	}
	delete(s.contacts, contactID)
	return nil
}
