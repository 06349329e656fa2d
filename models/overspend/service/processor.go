package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hearthledger/budget-backend/internal/events"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/models/overspend"
	"github.com/hearthledger/budget-backend/types"
	"go.uber.org/zap"
)

const eventSourceProcessor = "statement_processor"

// MemberError records a member branch that failed. Sibling members are not
// affected.
type MemberError struct {
	MemberID string `json:"memberId"`
	Error    string `json:"error"`
}

// ProcessResult is the outcome of one ProcessStatementCharges call. Entries
// follow the order of each member's first charge on the statement.
type ProcessResult struct {
	Overspends    []overspend.Detection         `json:"overspends"`
	Projects      []types.AccountabilityProject `json:"projects"`
	Tasks         []types.PaymentTask           `json:"tasks"`
	Notifications []types.Notification          `json:"notifications"`
	Errors        []MemberError                 `json:"errors"`
}

// FlaggedMembers returns the ids of every member whose charges exceeded the
// threshold.
func (r *ProcessResult) FlaggedMembers() []string {
	ids := make([]string, 0, len(r.Overspends))
	for _, d := range r.Overspends {
		ids = append(ids, d.MemberID)
	}
	return ids
}

type branchResult struct {
	detection     *overspend.Detection
	project       *types.AccountabilityProject
	tasks         []types.PaymentTask
	notifications []types.Notification
	err           error
}

// StatementProcessor detects overspends on a statement and materializes an
// accountability project with payment tasks for each one.
type StatementProcessor struct {
	households store.HouseholdStore
	projects   store.OverspendStore
	dispatcher NotificationDispatcher
	publisher  types.EventPublisher
	config     overspend.Config
	metrics    *processorMetrics
	now        func() time.Time
	log        *zap.SugaredLogger
}

var _ ChargeProcessor = (*StatementProcessor)(nil)

// NewStatementProcessor creates a processor. dispatcher and publisher may be
// nil, in which case that side effect is skipped.
func NewStatementProcessor(households store.HouseholdStore, projects store.OverspendStore, dispatcher NotificationDispatcher, publisher types.EventPublisher, cfg overspend.Config) *StatementProcessor {
	return &StatementProcessor{
		households: households,
		projects:   projects,
		dispatcher: dispatcher,
		publisher:  publisher,
		config:     cfg,
		metrics:    newProcessorMetrics(),
		now:        time.Now,
		log:        logger.GetLogger().Named("overspend"),
	}
}

// WithClock replaces the processor's time source.
func (p *StatementProcessor) WithClock(now func() time.Time) *StatementProcessor {
	p.now = now
	return p
}

// ProcessStatementCharges resolves the household's configuration, groups the
// charges by member and runs each member independently. Only a failure to
// load the household fails the whole call.
func (p *StatementProcessor) ProcessStatementCharges(ctx context.Context, householdID string, charges []types.Charge, statementID string) (*ProcessResult, error) {
	start := time.Now()
	defer func() {
		p.metrics.processDuration.Observe(time.Since(start).Seconds())
	}()

	household, err := p.households.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	hc := p.config.Resolve(household.Settings)
	managerIDs := household.ManagerIDs()
	groups := overspend.GroupCharges(charges)
	now := p.now()

	slots := make([]branchResult, len(groups))
	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group overspend.MemberCharges) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.log.Errorw("Panic while processing member charges",
						"householdID", householdID,
						"memberID", group.MemberID,
						"panic", r)
					slots[i] = branchResult{err: fmt.Errorf("panic processing member: %v", r)}
				}
			}()
			slots[i] = p.processMember(ctx, household, hc, managerIDs, statementID, group, now)
		}(i, group)
	}
	wg.Wait()

	result := &ProcessResult{
		Overspends:    []overspend.Detection{},
		Projects:      []types.AccountabilityProject{},
		Tasks:         []types.PaymentTask{},
		Notifications: []types.Notification{},
		Errors:        []MemberError{},
	}
	for i, slot := range slots {
		if slot.detection != nil {
			result.Overspends = append(result.Overspends, *slot.detection)
		}
		if slot.err != nil {
			p.metrics.memberErrors.Inc()
			p.log.Warnw("Overspend processing failed for member",
				"householdID", householdID,
				"statementID", statementID,
				"memberID", groups[i].MemberID,
				"error", slot.err)
			result.Errors = append(result.Errors, MemberError{MemberID: groups[i].MemberID, Error: slot.err.Error()})
			continue
		}
		if slot.project == nil {
			continue
		}
		result.Projects = append(result.Projects, *slot.project)
		result.Tasks = append(result.Tasks, slot.tasks...)
		result.Notifications = append(result.Notifications, slot.notifications...)
	}

	p.metrics.statementsProcessed.Inc()
	p.log.Infow("Processed statement charges",
		"householdID", householdID,
		"statementID", statementID,
		"members", len(groups),
		"overspends", len(result.Overspends),
		"projects", len(result.Projects),
		"errors", len(result.Errors))

	return result, nil
}

func (p *StatementProcessor) processMember(ctx context.Context, household *types.Household, hc overspend.HouseholdConfig, managerIDs []string, statementID string, group overspend.MemberCharges, now time.Time) branchResult {
	member, ok := household.Member(group.MemberID)
	if !ok {
		return branchResult{err: fmt.Errorf("member %s is not part of household %s", group.MemberID, household.ID)}
	}

	detection := overspend.Detect(member, group.Charges, hc.Threshold)
	if detection == nil {
		return branchResult{}
	}
	p.metrics.overspendsDetected.Inc()

	res := branchResult{detection: detection}

	percent, err := hc.PercentFor(member)
	if err != nil {
		res.err = err
		return res
	}
	responsibility, err := overspend.Calculate(*detection, percent, hc.WeekCount)
	if err != nil {
		res.err = err
		return res
	}

	project := overspend.NewProject(household.ID, statementID, *detection, responsibility, hc.AutoCreateThreshold, now)
	tasks := overspend.GenerateTasks(project, now)

	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}
	if err := p.projects.CreateProjectWithTasks(ctx, project, tasks); err != nil {
		res.err = fmt.Errorf("failed to create accountability project: %w", err)
		return res
	}
	p.metrics.projectsCreated.WithLabelValues(string(project.Status)).Inc()

	notifications := overspend.Compose(project, managerIDs)
	p.announce(ctx, project, notifications)

	res.project = project
	res.tasks = tasks
	res.notifications = notifications
	return res
}

// announce dispatches notifications and publishes the creation event. Both
// are best effort.
func (p *StatementProcessor) announce(ctx context.Context, project *types.AccountabilityProject, notifications []types.Notification) {
	if p.dispatcher != nil {
		if err := p.dispatcher.Dispatch(ctx, project.HouseholdID, notifications); err != nil {
			p.log.Warnw("Failed to dispatch overspend notifications",
				"projectID", project.ID,
				"error", err)
		}
	}

	if p.publisher != nil {
		payload := types.ProjectEventPayload{ProjectID: project.ID, MemberID: project.MemberID, Status: project.Status}
		if err := events.PublishEventWithContext(ctx, p.publisher, types.EventTypeOverspendProjectCreated, project.HouseholdID, project.MemberID, payload, eventSourceProcessor); err != nil {
			p.log.Warnw("Failed to publish project created event",
				"projectID", project.ID,
				"error", err)
		}
	}
}
