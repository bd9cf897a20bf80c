package assemble

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/scenlens/matrixer/helper"
	"github.com/scenlens/matrixer/model"
)

// Store provides nested entity loads for context assembly
type Store interface {
	SelectAssetWithThemes(ctx context.Context, rid uuid.UUID) (*model.Asset, error)
	SelectScenarioWithThemes(ctx context.Context, rid uuid.UUID) (*model.Scenario, error)
}

// Searcher supplies supplementary evidence beyond the structured sections
type Searcher interface {
	Search(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.FusedResult, error)
}

// Assembler builds a bounded textual context from an asset and a scenario
// with their nested themes and cards, topped up with hybrid search hits.
type Assembler struct {
	store    Store
	searcher Searcher
	config   model.AssemblerConfig
}

// NewAssembler creates a new context assembler
func NewAssembler(store Store, searcher Searcher, config model.AssemblerConfig) *Assembler {
	return &Assembler{
		store:    store,
		searcher: searcher,
		config:   config,
	}
}

const supplementarySearchLimit = 10

// WithBudget returns a copy of the assembler with a different character
// budget, used for per-request context limits
func (a *Assembler) WithBudget(charBudget int) *Assembler {
	if charBudget <= 0 {
		return a
	}
	config := a.config
	config.CharBudget = charBudget
	return &Assembler{store: a.store, searcher: a.searcher, config: config}
}

// Assemble fetches the asset and scenario with their themes and cards and
// emits ordered sections until the character budget is used. Structured
// sections stop at the configured share of the budget, supplementary
// search hits fill the remainder. Returns an error wrapping
// model.ErrNotFound if either entity is absent.
func (a *Assembler) Assemble(ctx context.Context, assetRID uuid.UUID, scenarioRID uuid.UUID, focusQuery string) (*model.AssembledContext, error) {
	asset, err := a.store.SelectAssetWithThemes(ctx, assetRID)
	if err != nil {
		return nil, helper.NewError("selecting asset for context", err)
	}
	scenario, err := a.store.SelectScenarioWithThemes(ctx, scenarioRID)
	if err != nil {
		return nil, helper.NewError("selecting scenario for context", err)
	}

	assembled := &model.AssembledContext{
		AssetRID:     assetRID,
		ScenarioRID:  scenarioRID,
		AssetName:    asset.Name,
		ScenarioName: scenario.Name,
	}

	structuredBudget := int(float64(a.config.CharBudget) * a.config.StructuredShare)
	includedCards := make(map[uuid.UUID]bool)

	builder := &sectionBuilder{budget: structuredBudget}
	builder.add("Asset", entityHeader(asset.Name, asset.Description))
	builder.add("Scenario", entityHeader(scenario.Name, scenario.Description))
	builder.addThemes("Asset themes", asset.Themes, includedCards)
	builder.addThemes("Scenario themes", scenario.Themes, includedCards)

	// Search filler may use the full budget, not just the structured share
	builder.budget = a.config.CharBudget
	a.addSearchSection(ctx, builder, asset, scenario, focusQuery, includedCards)

	assembled.Sections = builder.sections
	assembled.Text = builder.text()
	assembled.CharCount = len(assembled.Text)
	assembled.TokenCount = estimateTokens(assembled.Text)
	for rid := range includedCards {
		assembled.CardRIDs = append(assembled.CardRIDs, rid)
	}

	return assembled, nil
}

// addSearchSection tops the context up with hybrid search hits not already
// covered by an included card
func (a *Assembler) addSearchSection(ctx context.Context, builder *sectionBuilder, asset *model.Asset, scenario *model.Scenario, focusQuery string, includedCards map[uuid.UUID]bool) {
	if a.searcher == nil || builder.used >= builder.budget {
		return
	}

	query := focusQuery
	if query == "" {
		query = asset.Name + " " + scenario.Name
	}

	filters := &model.SearchFilters{AssetRID: &asset.RID}
	results, err := a.searcher.Search(ctx, query, filters, supplementarySearchLimit)
	if err != nil {
		// Supplementary evidence is best effort, the structured context stands alone
		return
	}

	var content strings.Builder
	for _, result := range results {
		if result.CardRID != uuid.Nil && includedCards[result.CardRID] {
			continue
		}
		snippet := result.Content
		if result.ContextWindow != "" {
			snippet = result.ContextWindow
		}
		line := fmt.Sprintf("- %v\n", snippet)
		if builder.used+content.Len()+len(line) > builder.budget {
			break
		}
		content.WriteString(line)
		if result.CardRID != uuid.Nil {
			includedCards[result.CardRID] = true
		}
	}

	if content.Len() > 0 {
		builder.add("Related evidence", content.String())
	}
}

// sectionBuilder accumulates ordered sections under a character budget
type sectionBuilder struct {
	sections []model.ContextSection
	budget   int
	used     int
}

// add appends a section, truncating its content to the remaining budget
func (b *sectionBuilder) add(title string, content string) {
	if content == "" || b.used >= b.budget {
		return
	}

	remaining := b.budget - b.used
	if len(content) > remaining {
		content = helper.Truncate(content, remaining)
	}

	b.sections = append(b.sections, model.ContextSection{Title: title, Content: content})
	b.used += len(content)
}

// addThemes emits one section per theme with its cards, recording which
// cards were included
func (b *sectionBuilder) addThemes(prefix string, themes []*model.Theme, includedCards map[uuid.UUID]bool) {
	for _, theme := range themes {
		if b.used >= b.budget {
			return
		}

		var content strings.Builder
		content.WriteString(entityHeader(theme.Name, theme.Description))
		for _, card := range theme.Cards {
			line := fmt.Sprintf("- %v: %v\n", card.Title, card.Content)
			if b.used+content.Len()+len(line) > b.budget {
				break
			}
			content.WriteString(line)
			includedCards[card.RID] = true
		}

		b.add(fmt.Sprintf("%v: %v", prefix, theme.Name), content.String())
	}
}

// text joins all sections into the final context string
func (b *sectionBuilder) text() string {
	var text strings.Builder
	for _, section := range b.sections {
		text.WriteString("## " + section.Title + "\n")
		text.WriteString(section.Content)
		if !strings.HasSuffix(section.Content, "\n") {
			text.WriteString("\n")
		}
		text.WriteString("\n")
	}
	return strings.TrimRight(text.String(), "\n")
}

func entityHeader(name string, description string) string {
	if description == "" {
		return name + "\n"
	}
	return name + "\n" + description + "\n"
}

// estimateTokens approximates the token count at four characters per token
func estimateTokens(text string) int {
	return len(text) / 4
}
