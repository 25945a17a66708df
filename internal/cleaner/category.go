package cleaner

// Category identifies one anomaly detector/remediation pair.
type Category string

const (
	CategoryUnlinkedTokens  Category = "unlinkedTokens"
	CategoryOrphanedEffects Category = "orphanedActiveEffects"
	CategoryEmptyDocuments  Category = "emptyDocuments"
	CategoryDuplicateAssets Category = "duplicateAssets"
	CategoryOldChatMessages Category = "oldChatMessages"
)

// categoryOrder is the fixed sequence detectors run in.
var categoryOrder = []Category{
	CategoryUnlinkedTokens,
	CategoryOrphanedEffects,
	CategoryEmptyDocuments,
	CategoryDuplicateAssets,
	CategoryOldChatMessages,
}

// Label returns the operator-facing name used in summaries.
func (c Category) Label() string {
	switch c {
	case CategoryUnlinkedTokens:
		return "Unlinked Tokens"
	case CategoryOrphanedEffects:
		return "Orphaned Active Effects"
	case CategoryEmptyDocuments:
		return "Empty Documents"
	case CategoryDuplicateAssets:
		return "Duplicate Assets"
	case CategoryOldChatMessages:
		return "Old Chat Messages"
	default:
		return string(c)
	}
}

// Action is a remediation requested by configuration.
type Action string

const (
	ActionDelete  Action = "delete"
	ActionMove    Action = "move"
	ActionFlag    Action = "flag"
	ActionArchive Action = "archive"
	ActionIgnore  Action = "ignore"
)

// effectiveActions maps each category's configured action to the action that
// actually runs. Degradations (an unsupported action falling back to flag)
// are first-class policy here rather than accidental control flow; absent
// combinations run as ignore.
var effectiveActions = map[Category]map[Action]Action{
	CategoryUnlinkedTokens: {
		ActionDelete: ActionDelete,
		ActionMove:   ActionFlag,
		ActionFlag:   ActionFlag,
		ActionIgnore: ActionIgnore,
	},
	CategoryOrphanedEffects: {
		ActionDelete: ActionDelete,
		ActionMove:   ActionFlag,
		ActionFlag:   ActionFlag,
		ActionIgnore: ActionIgnore,
	},
	CategoryEmptyDocuments: {
		ActionDelete: ActionDelete,
		ActionMove:   ActionMove,
		ActionFlag:   ActionFlag,
		ActionIgnore: ActionIgnore,
	},
	CategoryDuplicateAssets: {
		ActionDelete: ActionFlag,
		ActionMove:   ActionFlag,
		ActionFlag:   ActionFlag,
		ActionIgnore: ActionIgnore,
	},
	CategoryOldChatMessages: {
		ActionDelete:  ActionDelete,
		ActionMove:    ActionFlag,
		ActionFlag:    ActionFlag,
		ActionArchive: ActionArchive,
		ActionIgnore:  ActionIgnore,
	},
}

// effectiveAction resolves the configured action for a category. The second
// return reports whether the requested action was substituted.
func effectiveAction(cat Category, requested Action) (Action, bool) {
	table, ok := effectiveActions[cat]
	if !ok {
		return ActionIgnore, false
	}
	effective, ok := table[requested]
	if !ok {
		return ActionIgnore, false
	}
	return effective, effective != requested
}
