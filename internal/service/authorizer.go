package service

import (
	_ "embed"
	"fmt"
	"strings"

	"vetcare-backend/internal/domain/entity"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/sirupsen/logrus"
)

//go:embed model.conf
var authzModel string

//go:embed policy.csv
var authzPolicy string

// Resources of the capability table
const (
	ResourceClinic        = "clinic"
	ResourceVet           = "vet"
	ResourceStaff         = "staff"
	ResourcePet           = "pet"
	ResourceAppointment   = "appointment"
	ResourceMedicalRecord = "medical_record"
	ResourcePrescription  = "prescription"
	ResourceChat          = "chat"
	ResourceChatbot       = "chatbot"
	ResourceAuditLog      = "audit_log"
	ResourceKnowledgeBase = "knowledge_base"
)

// Actions of the capability table
const (
	ActionCreate         = "create"
	ActionRead           = "read"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionManage         = "manage"
	ActionApprove        = "approve"
	ActionRegisterClinic = "register_clinic"
	ActionBook           = "book"
	ActionConfirm        = "confirm"
	ActionCancel         = "cancel"
	ActionReschedule     = "reschedule"
	ActionComplete       = "complete"
	ActionAttach         = "attach"
	ActionVisibility     = "visibility"
	ActionSend           = "send"
	ActionAsk            = "ask"
	ActionReload         = "reload"
)

// Authorizer answers whether a principal's role and access level allow an action.
// Resource-level predicates (ownership, membership) are checked by the caller.
type Authorizer interface {
	Can(principal *entity.Principal, resource, action string) bool
}

type casbinAuthorizer struct {
	enforcer *casbin.SyncedEnforcer
	log      *logrus.Logger
}

// NewAuthorizer builds the capability table from the embedded model and policy.
func NewAuthorizer(log *logrus.Logger) (Authorizer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := loadPolicy(enforcer, authzPolicy); err != nil {
		return nil, err
	}

	return &casbinAuthorizer{enforcer: enforcer, log: log}, nil
}

func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

func (a *casbinAuthorizer) Can(principal *entity.Principal, resource, action string) bool {
	if principal == nil || !principal.Role.Valid() {
		return false
	}
	if principal.IsVet() && !principal.AccessLevel.Valid() {
		return false
	}

	allowed, err := a.enforcer.Enforce(principal.Subject(), resource, action)
	if err != nil {
		a.log.Warnf("Failed to enforce %s %s:%s: %+v", principal.Subject(), resource, action, err)
		return false
	}
	return allowed
}
