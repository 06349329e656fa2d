package types

// PermissionRule defines the authorization rules for an action on a resource.
type PermissionRule struct {
	// MinRole is the minimum role required to perform the action.
	// If nil, the action is not allowed for any role.
	MinRole *HouseholdRole

	// SubjectOnly means only the member the resource is about may act,
	// regardless of role.
	SubjectOnly bool

	// SubjectOrMinRole means either the subject member OR someone with MinRole
	// may act.
	SubjectOrMinRole bool
}

// Key: Resource -> Action -> PermissionRule
var permissionMatrix = map[Resource]map[Action]PermissionRule{
	ResourceStatement: {
		ActionCreate: {MinRole: rolePtr(HouseholdRoleMember)},
		ActionRead:   {MinRole: rolePtr(HouseholdRoleMember)},
	},
	ResourceProject: {
		ActionRead:          {MinRole: rolePtr(HouseholdRoleMember)},
		ActionApprove:       {MinRole: rolePtr(HouseholdRoleCoOwner)},
		ActionUpdateStatus:  {MinRole: rolePtr(HouseholdRoleManager)},
		ActionRecordPayment: {MinRole: rolePtr(HouseholdRoleManager), SubjectOrMinRole: true},
	},
	ResourceTask: {
		ActionRead:     {MinRole: rolePtr(HouseholdRoleMember)},
		ActionComplete: {MinRole: rolePtr(HouseholdRoleMember), SubjectOnly: true},
		ActionDismiss:  {MinRole: rolePtr(HouseholdRoleManager)},
	},
	ResourceSummary: {
		ActionRead: {MinRole: rolePtr(HouseholdRoleMember)},
	},
}

func rolePtr(r HouseholdRole) *HouseholdRole {
	return &r
}

// CanPerform checks if a role can perform an action on a resource without
// considering who the resource is about.
func CanPerform(role HouseholdRole, action Action, resource Resource) bool {
	return CanPerformAsSubject(role, action, resource, false)
}

// CanPerformAsSubject checks if a role can perform an action on a resource,
// where isSubject reports whether the caller is the member the resource
// concerns (a project's member, a task's assignee).
func CanPerformAsSubject(role HouseholdRole, action Action, resource Resource, isSubject bool) bool {
	rule := GetPermissionRule(resource, action)
	if rule == nil || rule.MinRole == nil {
		return false
	}

	hasMinRole := role.IsAuthorizedFor(*rule.MinRole)

	if rule.SubjectOnly {
		return isSubject && role.IsValid()
	}
	if rule.SubjectOrMinRole {
		return hasMinRole || (isSubject && role.IsValid())
	}
	return hasMinRole
}

// GetPermissionRule returns the permission rule for an action on a resource.
// Returns nil if no rule is defined.
func GetPermissionRule(resource Resource, action Action) *PermissionRule {
	resourcePerms, ok := permissionMatrix[resource]
	if !ok {
		return nil
	}

	rule, ok := resourcePerms[action]
	if !ok {
		return nil
	}

	return &rule
}
