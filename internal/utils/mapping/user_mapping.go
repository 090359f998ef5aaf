package mapping

import (
	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/SscSPs/baki_khata/internal/models"
)

// ToModelUser converts a domain User to its users row.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		// Audit structs differ only in tags.
		AuditFields: models.AuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a users row to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		AuditFields:  domain.AuditFields(m.AuditFields),
	}
}
