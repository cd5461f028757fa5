package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/oni-calculator/internal/adapters/catalogfile"
	"github.com/andrescamacho/oni-calculator/internal/adapters/persistence"
	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/application/production/commands"
	"github.com/andrescamacho/oni-calculator/internal/application/production/services"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
	"github.com/andrescamacho/oni-calculator/pkg/utils"
	"github.com/andrescamacho/oni-calculator/test/helpers"
)

type chainResolverContext struct {
	catalog  *helpers.MockCatalogRepository
	stored   production.CatalogRepository // Set when a scenario resolves against SQLite
	logger   *helpers.RecordingLogger
	maxNodes int
	selector production.ProducerSelector

	resource string
	rate     float64
	tree     *production.ProductionNode
	summary  *production.ChainSummary
	err      error
}

func (ctx *chainResolverContext) reset() {
	ctx.catalog = helpers.NewMockCatalogRepository()
	ctx.stored = nil
	ctx.logger = &helpers.RecordingLogger{}
	ctx.maxNodes = 0
	ctx.selector = nil
	ctx.resource = ""
	ctx.rate = 0
	ctx.tree = nil
	ctx.summary = nil
	ctx.err = nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (ctx *chainResolverContext) anEmptyCatalog() error {
	ctx.catalog = helpers.NewMockCatalogRepository()
	return nil
}

func (ctx *chainResolverContext) theSampleCatalog() error {
	snapshot, err := catalogfile.Sample()
	if err != nil {
		return err
	}
	ctx.catalog.Seed(snapshot)
	return nil
}

func (ctx *chainResolverContext) theSampleCatalogStoredInSQLite() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	snapshot, err := catalogfile.Sample()
	if err != nil {
		return err
	}

	repo := persistence.NewGormCatalogRepository(helpers.SharedTestDB)
	handler := commands.NewImportCatalogHandler(repo)
	if _, err := handler.Handle(context.Background(), &commands.ImportCatalogCommand{Snapshot: snapshot, Source: "sample"}); err != nil {
		return err
	}

	ctx.stored = repo
	return nil
}

func (ctx *chainResolverContext) aFacilityNamedWithPower(id, name string, power float64) error {
	ctx.catalog.AddFacility(id, name, power)
	return nil
}

func (ctx *chainResolverContext) facilityConsumesAt(facilityID, resourceID string, rate float64) error {
	ctx.catalog.AddFacilityInput(facilityID, resourceID, rate)
	return nil
}

func (ctx *chainResolverContext) facilityProducesAt(facilityID, resourceID string, rate float64) error {
	ctx.catalog.AddFacilityOutput(facilityID, resourceID, rate)
	return nil
}

func (ctx *chainResolverContext) theCatalogFailsToListProducersOf(resourceID string) error {
	ctx.catalog.FailProducersOf(resourceID, fmt.Errorf("catalog unavailable for %s", resourceID))
	return nil
}

func (ctx *chainResolverContext) theResolverIsLimitedToNodes(limit int) error {
	ctx.maxNodes = limit
	return nil
}

func (ctx *chainResolverContext) facilitiesArePreferredInOrder(ids string) error {
	var preferred []string
	for _, id := range strings.Split(ids, ",") {
		preferred = append(preferred, strings.TrimSpace(id))
	}
	ctx.selector = production.PreferFacilities(preferred)
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (ctx *chainResolverContext) iResolveAt(resource string, rate float64) error {
	var catalog production.CatalogRepository = ctx.catalog
	if ctx.stored != nil {
		catalog = ctx.stored
	}

	resolver := services.NewChainResolverWithSelector(catalog, ctx.selector)
	resolver.SetMaxNodes(ctx.maxNodes)

	runCtx := common.WithLogger(context.Background(), ctx.logger)

	ctx.resource = resource
	ctx.rate = rate
	ctx.tree, ctx.err = resolver.Resolve(runCtx, resource, rate)
	if ctx.err == nil {
		ctx.summary = production.Summarize(ctx.tree, resource, rate)
	}
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (ctx *chainResolverContext) resolutionShouldSucceed() error {
	if ctx.err != nil {
		return fmt.Errorf("expected resolution to succeed, got: %w", ctx.err)
	}
	return nil
}

func (ctx *chainResolverContext) resolutionShouldFail() error {
	if ctx.err == nil {
		return fmt.Errorf("expected resolution to fail")
	}
	return nil
}

func (ctx *chainResolverContext) theErrorShouldMention(text string) error {
	if ctx.err == nil {
		return fmt.Errorf("expected an error mentioning %q, got none", text)
	}
	if !strings.Contains(ctx.err.Error(), text) {
		return fmt.Errorf("expected error to mention %q, got %q", text, ctx.err.Error())
	}
	return nil
}

func (ctx *chainResolverContext) theRootShouldBeARawNodeForAt(resource string, rate float64) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if !ctx.tree.IsRaw() {
		return fmt.Errorf("expected raw root, got facility %s", ctx.tree.FacilityID)
	}
	if len(ctx.tree.Inputs) != 1 {
		return fmt.Errorf("expected raw node with 1 input, got %d", len(ctx.tree.Inputs))
	}
	input := ctx.tree.Inputs[0]
	if input.ResourceID != resource {
		return fmt.Errorf("expected raw input %s, got %s", resource, input.ResourceID)
	}
	if input.RateKgPerSecond != rate {
		return fmt.Errorf("expected raw rate exactly %v, got %v", rate, input.RateKgPerSecond)
	}
	if input.HasUpstream() {
		return fmt.Errorf("raw input must not have an upstream")
	}
	return nil
}

func (ctx *chainResolverContext) theRootShouldBeFacilityWithCount(facilityID string, count float64) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if ctx.tree.FacilityID != facilityID {
		return fmt.Errorf("expected root facility %s, got %s", facilityID, ctx.tree.FacilityID)
	}
	if !utils.ApproxEqual(ctx.tree.Count, count, utils.DefaultTolerance) {
		return fmt.Errorf("expected count %v, got %v", count, ctx.tree.Count)
	}
	return nil
}

func (ctx *chainResolverContext) theRootCountShouldBe(kind string) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	return checkNonFinite("root count", ctx.tree.Count, kind)
}

func (ctx *chainResolverContext) theRootPowerShouldBe(power float64) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if !utils.ApproxEqual(ctx.tree.PowerWatts, power, utils.DefaultTolerance) {
		return fmt.Errorf("expected root power %vW, got %vW", power, ctx.tree.PowerWatts)
	}
	return nil
}

func (ctx *chainResolverContext) theRootShouldRequireAt(resource string, rate float64) error {
	input, err := ctx.rootInput(resource)
	if err != nil {
		return err
	}
	if !utils.ApproxEqual(input.RateKgPerSecond, rate, utils.DefaultTolerance) {
		return fmt.Errorf("expected %s at %v kg/s, got %v", resource, rate, input.RateKgPerSecond)
	}
	return nil
}

func (ctx *chainResolverContext) theRequirementForShouldHaveARawUpstream(resource string) error {
	input, err := ctx.rootInput(resource)
	if err != nil {
		return err
	}
	if !input.HasUpstream() || !input.Upstream.IsRaw() {
		return fmt.Errorf("expected %s to be fed by a raw node", resource)
	}
	return nil
}

func (ctx *chainResolverContext) theRootShouldHaveInputs(count int) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if len(ctx.tree.Inputs) != count {
		return fmt.Errorf("expected %d root inputs, got %d", count, len(ctx.tree.Inputs))
	}
	return nil
}

func (ctx *chainResolverContext) theTotalPowerShouldBe(power float64) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	total := production.TotalPower(ctx.tree)
	if !utils.ApproxEqual(total, power, utils.DefaultTolerance) {
		return fmt.Errorf("expected total power %vW, got %vW", power, total)
	}
	return nil
}

func (ctx *chainResolverContext) theTotalPowerShouldEqualTheSumOfNodePowers() error {
	if err := ctx.requireTree(); err != nil {
		return err
	}

	var forward float64
	var nodes []*production.ProductionNode
	ctx.tree.Walk(func(node *production.ProductionNode) {
		forward += node.PowerWatts
		nodes = append(nodes, node)
	})

	var backward float64
	for i := len(nodes) - 1; i >= 0; i-- {
		backward += nodes[i].PowerWatts
	}

	total := production.TotalPower(ctx.tree)
	if !utils.ApproxEqual(total, forward, 1e-6) || !utils.ApproxEqual(total, backward, 1e-6) {
		return fmt.Errorf("total power %v differs from node sums %v / %v", total, forward, backward)
	}
	return nil
}

func (ctx *chainResolverContext) theTotalPowerShouldNotBeFinite() error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if total := production.TotalPower(ctx.tree); utils.IsFinite(total) {
		return fmt.Errorf("expected non-finite total power, got %v", total)
	}
	return nil
}

func (ctx *chainResolverContext) theTreeDepthShouldBe(depth int) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if got := ctx.tree.Depth(); got != depth {
		return fmt.Errorf("expected tree depth %d, got %d", depth, got)
	}
	return nil
}

func (ctx *chainResolverContext) theTreeDepthShouldBeAtMost(depth int) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if got := ctx.tree.Depth(); got > depth {
		return fmt.Errorf("expected tree depth at most %d, got %d", depth, got)
	}
	return nil
}

func (ctx *chainResolverContext) theTreeShouldHaveNodes(count int) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if got := ctx.tree.CountNodes(); got != count {
		return fmt.Errorf("expected %d nodes, got %d", count, got)
	}
	return nil
}

func (ctx *chainResolverContext) theTreeShouldHaveUnresolvedInputs(count int) error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if got := len(ctx.tree.UnresolvedInputs()); got != count {
		return fmt.Errorf("expected %d unresolved inputs, got %d", count, got)
	}
	return nil
}

func (ctx *chainResolverContext) aDegradedInputShouldHaveBeenLogged() error {
	if ctx.logger.CountLevel("WARN") == 0 {
		return fmt.Errorf("expected a WARN log for the degraded input")
	}
	return nil
}

func (ctx *chainResolverContext) everyRequiredRateInTheTreeShouldBeZero() error {
	if err := ctx.requireTree(); err != nil {
		return err
	}

	var offending []string
	ctx.tree.Walk(func(node *production.ProductionNode) {
		for _, input := range node.Inputs {
			if input.RateKgPerSecond != 0 {
				offending = append(offending, fmt.Sprintf("%s=%v", input.ResourceID, input.RateKgPerSecond))
			}
		}
	})
	if len(offending) > 0 {
		return fmt.Errorf("expected all rates to be 0, got %s", strings.Join(offending, ", "))
	}
	return nil
}

func (ctx *chainResolverContext) theSummaryShouldListFacilityEntries(count int) error {
	if err := ctx.requireSummary(); err != nil {
		return err
	}
	if got := len(ctx.summary.FacilityCounts); got != count {
		return fmt.Errorf("expected %d facility entries, got %d", count, got)
	}
	return nil
}

func (ctx *chainResolverContext) theSummaryShouldCount(count float64, name string) error {
	if err := ctx.requireSummary(); err != nil {
		return err
	}
	got, ok := ctx.summary.FacilityCount(name)
	if !ok {
		return fmt.Errorf("summary has no entry for %q", name)
	}
	if !utils.ApproxEqual(got, count, utils.DefaultTolerance) {
		return fmt.Errorf("expected %v x %s, got %v", count, name, got)
	}
	return nil
}

func (ctx *chainResolverContext) theSummaryRawInputShouldBe(resource string, rate float64) error {
	if err := ctx.requireSummary(); err != nil {
		return err
	}
	got, ok := ctx.summary.RawInputRate(resource)
	if !ok {
		return fmt.Errorf("summary has no raw input %q", resource)
	}
	if !utils.ApproxEqual(got, rate, utils.DefaultTolerance) {
		return fmt.Errorf("expected raw %s at %v kg/s, got %v", resource, rate, got)
	}
	return nil
}

func (ctx *chainResolverContext) theSummaryNetPowerShouldBe(power float64) error {
	if err := ctx.requireSummary(); err != nil {
		return err
	}
	if !utils.ApproxEqual(ctx.summary.NetPower, power, utils.DefaultTolerance) {
		return fmt.Errorf("expected net power %vW, got %vW", power, ctx.summary.NetPower)
	}
	return nil
}

func (ctx *chainResolverContext) theSummaryShouldBeProducedWithoutPanicking() error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	var panicked interface{}
	func() {
		defer func() { panicked = recover() }()
		ctx.summary = production.Summarize(ctx.tree, ctx.resource, ctx.rate)
	}()
	if panicked != nil {
		return fmt.Errorf("summarize panicked: %v", panicked)
	}
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func (ctx *chainResolverContext) requireTree() error {
	if ctx.err != nil {
		return fmt.Errorf("resolution failed: %w", ctx.err)
	}
	if ctx.tree == nil {
		return errors.New("no tree was resolved")
	}
	return nil
}

func (ctx *chainResolverContext) requireSummary() error {
	if err := ctx.requireTree(); err != nil {
		return err
	}
	if ctx.summary == nil {
		return errors.New("no summary was produced")
	}
	return nil
}

func (ctx *chainResolverContext) rootInput(resource string) (production.InputRequirement, error) {
	if err := ctx.requireTree(); err != nil {
		return production.InputRequirement{}, err
	}
	for _, input := range ctx.tree.Inputs {
		if input.ResourceID == resource {
			return input, nil
		}
	}
	return production.InputRequirement{}, fmt.Errorf("root has no input %s", resource)
}

func checkNonFinite(label string, value float64, kind string) error {
	switch kind {
	case "positive infinity":
		if !math.IsInf(value, 1) {
			return fmt.Errorf("expected %s to be +Inf, got %v", label, value)
		}
	case "NaN":
		if !math.IsNaN(value) {
			return fmt.Errorf("expected %s to be NaN, got %v", label, value)
		}
	default:
		return fmt.Errorf("unknown non-finite kind %q", kind)
	}
	return nil
}

// ============================================================================
// Registration
// ============================================================================

// InitializeChainResolverScenario registers all chain resolver step definitions
func InitializeChainResolverScenario(sc *godog.ScenarioContext) {
	ctx := &chainResolverContext{}
	sc.Before(func(bddCtx context.Context, sc *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return bddCtx, nil
	})

	// Setup steps
	sc.Step(`^an empty catalog$`, ctx.anEmptyCatalog)
	sc.Step(`^the sample catalog$`, ctx.theSampleCatalog)
	sc.Step(`^the sample catalog stored in SQLite$`, ctx.theSampleCatalogStoredInSQLite)
	sc.Step(`^a facility "([^"]*)" named "([^"]*)" with power (-?\d+(?:\.\d+)?) W$`, ctx.aFacilityNamedWithPower)
	sc.Step(`^facility "([^"]*)" consumes "([^"]*)" at (\d+(?:\.\d+)?) kg/s$`, ctx.facilityConsumesAt)
	sc.Step(`^facility "([^"]*)" produces "([^"]*)" at (\d+(?:\.\d+)?) kg/s$`, ctx.facilityProducesAt)
	sc.Step(`^the catalog fails to list producers of "([^"]*)"$`, ctx.theCatalogFailsToListProducersOf)
	sc.Step(`^the resolver is limited to (\d+) nodes$`, ctx.theResolverIsLimitedToNodes)
	sc.Step(`^facilities are preferred in order "([^"]*)"$`, ctx.facilitiesArePreferredInOrder)

	// Action steps
	sc.Step(`^I resolve "([^"]*)" at (\d+(?:\.\d+)?) kg/s$`, ctx.iResolveAt)

	// Assertion steps
	sc.Step(`^resolution should succeed$`, ctx.resolutionShouldSucceed)
	sc.Step(`^resolution should fail$`, ctx.resolutionShouldFail)
	sc.Step(`^the error should mention "([^"]*)"$`, ctx.theErrorShouldMention)
	sc.Step(`^the root should be a raw node for "([^"]*)" at (\d+(?:\.\d+)?) kg/s$`, ctx.theRootShouldBeARawNodeForAt)
	sc.Step(`^the root should be facility "([^"]*)" with count (\d+(?:\.\d+)?)$`, ctx.theRootShouldBeFacilityWithCount)
	sc.Step(`^the root count should be (positive infinity|NaN)$`, ctx.theRootCountShouldBe)
	sc.Step(`^the root power should be (-?\d+(?:\.\d+)?) W$`, ctx.theRootPowerShouldBe)
	sc.Step(`^the root should require "([^"]*)" at (\d+(?:\.\d+)?) kg/s$`, ctx.theRootShouldRequireAt)
	sc.Step(`^the requirement for "([^"]*)" should have a raw upstream$`, ctx.theRequirementForShouldHaveARawUpstream)
	sc.Step(`^the root should have (\d+) inputs?$`, ctx.theRootShouldHaveInputs)
	sc.Step(`^the total power should be (-?\d+(?:\.\d+)?) W$`, ctx.theTotalPowerShouldBe)
	sc.Step(`^the total power should equal the sum of node powers$`, ctx.theTotalPowerShouldEqualTheSumOfNodePowers)
	sc.Step(`^the total power should not be finite$`, ctx.theTotalPowerShouldNotBeFinite)
	sc.Step(`^the tree depth should be (\d+)$`, ctx.theTreeDepthShouldBe)
	sc.Step(`^the tree depth should be at most (\d+)$`, ctx.theTreeDepthShouldBeAtMost)
	sc.Step(`^the tree should have (\d+) nodes$`, ctx.theTreeShouldHaveNodes)
	sc.Step(`^the tree should have (\d+) unresolved inputs?$`, ctx.theTreeShouldHaveUnresolvedInputs)
	sc.Step(`^a degraded input should have been logged$`, ctx.aDegradedInputShouldHaveBeenLogged)
	sc.Step(`^every required rate in the tree should be 0 kg/s$`, ctx.everyRequiredRateInTheTreeShouldBeZero)
	sc.Step(`^the summary should list (\d+) facility entr(?:y|ies)$`, ctx.theSummaryShouldListFacilityEntries)
	sc.Step(`^the summary should count (\d+(?:\.\d+)?) "([^"]*)"$`, ctx.theSummaryShouldCount)
	sc.Step(`^the summary raw input "([^"]*)" should be (\d+(?:\.\d+)?) kg/s$`, ctx.theSummaryRawInputShouldBe)
	sc.Step(`^the summary net power should be (-?\d+(?:\.\d+)?) W$`, ctx.theSummaryNetPowerShouldBe)
	sc.Step(`^the summary should be produced without panicking$`, ctx.theSummaryShouldBeProducedWithoutPanicking)
}
