package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/platform/cache"
	"github.com/skanelive/matchcenter/internal/platform/logging"
)

// Resolution is what presentation collaborators receive: the unified match
// record and, when available, the lineups. Lineup stays nil for custom
// games and whenever the lineup fetch degraded.
type Resolution struct {
	Match  match.UnifiedMatch
	Lineup *lineup.Lineup
}

// MatchService resolves a match from the CMS and the sports-data provider,
// deciding per request which source is authoritative. The cache store is
// injected explicitly; it is the only shared state the resolver touches.
type MatchService struct {
	cms      CMSGateway
	provider SportDataGateway
	store    *cache.Store
	archive  MatchArchive
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchService(
	cms CMSGateway,
	provider SportDataGateway,
	store *cache.Store,
	archive MatchArchive,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		cms:      cms,
		provider: provider,
		store:    store,
		archive:  archive,
		logger:   logger,
		now:      time.Now,
	}
}

// ResolveBySlug resolves a match from its CMS identifier (slug or id).
func (s *MatchService) ResolveBySlug(ctx context.Context, slug string) (Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ResolveBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Resolution{}, fmt.Errorf("%w: match identifier is required", ErrInvalidInput)
	}

	return s.resolve(ctx, slug, "", "")
}

// ResolveByKey resolves a match from a (league id, match id) pair. Either
// id may be an opaque string or a legacy numeric identifier.
func (s *MatchService) ResolveByKey(ctx context.Context, leagueID, matchID string) (Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ResolveByKey")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	matchID = strings.TrimSpace(matchID)
	if leagueID == "" || matchID == "" {
		return Resolution{}, fmt.Errorf("%w: league id and match id are required", ErrInvalidInput)
	}

	return s.resolve(ctx, matchID, leagueID, matchID)
}

// resolve implements the CMS-first lookup with custom-game short-circuit
// and provider fallback. cmsIdentifier is the CMS lookup key; leagueID and
// matchID are the explicit route pair when the request carried one.
func (s *MatchService) resolve(ctx context.Context, cmsIdentifier, leagueID, matchID string) (Resolution, error) {
	cmsRec, cmsFound, cmsErr := s.cms.GetMatch(ctx, cmsIdentifier)
	if cmsErr != nil {
		// Transport failure, not absence. The provider path can still
		// succeed when the request carried an explicit pair.
		s.logger.WarnContext(ctx, "cms lookup failed", "identifier", cmsIdentifier, "error", cmsErr)
		if leagueID == "" || matchID == "" {
			return Resolution{}, fmt.Errorf("%w: cms lookup failed: %v", ErrDependencyUnavailable, cmsErr)
		}
		cmsFound = false
	}

	if cmsFound && cmsRec.IsCustomGame {
		// Authoritative and complete on its own. Lineup is absent by
		// design and the provider is never contacted.
		return Resolution{Match: unifiedFromCMS(cmsRec)}, nil
	}

	if cmsFound {
		return s.resolveEnhanced(ctx, cmsRec, leagueID, matchID)
	}

	return s.resolveProviderOnly(ctx, leagueID, matchID)
}

// resolveEnhanced merges the provider record into the CMS base. Provider
// failure degrades to the CMS-only record and is never fatal.
func (s *MatchService) resolveEnhanced(ctx context.Context, cmsRec CMSMatchRecord, leagueID, matchID string) (Resolution, error) {
	// Explicit route parameters win; ids embedded in the CMS record are
	// the fallback.
	effLeagueID := firstNonEmpty(leagueID, cmsRec.LeagueID)
	effMatchID := firstNonEmpty(matchID, cmsRec.ExternalMatchID)
	if effLeagueID == "" || effMatchID == "" {
		s.logger.WarnContext(ctx, "cms record has no provider ids, serving cms-only record",
			"cms_id", cmsRec.ID)
		return Resolution{Match: unifiedFromCMS(cmsRec)}, nil
	}

	provRec, err := s.fetchProviderCached(ctx, effLeagueID, effMatchID)
	if err != nil {
		s.logger.WarnContext(ctx, "provider fetch failed, falling back to cms record",
			"league_id", effLeagueID, "match_id", effMatchID, "error", err)
		return Resolution{Match: unifiedFromCMS(cmsRec)}, nil
	}

	unified := mergeRecords(cmsRec, provRec)
	s.archiveIfFinished(ctx, unified)

	return Resolution{
		Match:  unified,
		Lineup: s.fetchLineupTolerant(ctx, effLeagueID, provRec.Season, provRec.ExternalID),
	}, nil
}

// resolveProviderOnly handles the CMS-miss path. The archive is consulted
// as a last read fallback before the miss becomes a NotFound.
func (s *MatchService) resolveProviderOnly(ctx context.Context, leagueID, matchID string) (Resolution, error) {
	if leagueID == "" || matchID == "" {
		return Resolution{}, fmt.Errorf("%w: match", ErrNotFound)
	}

	provRec, err := s.fetchProviderCached(ctx, leagueID, matchID)
	if err != nil {
		if s.archive != nil {
			archived, found, archiveErr := s.archive.GetByKey(ctx, leagueID, matchID)
			if archiveErr != nil {
				s.logger.WarnContext(ctx, "archive lookup failed", "league_id", leagueID, "match_id", matchID, "error", archiveErr)
			} else if found {
				return Resolution{Match: archived}, nil
			}
		}
		return Resolution{}, fmt.Errorf("%w: match league=%s id=%s", ErrNotFound, leagueID, matchID)
	}

	unified := unifiedFromProvider(provRec, leagueID)
	s.archiveIfFinished(ctx, unified)

	return Resolution{
		Match:  unified,
		Lineup: s.fetchLineupTolerant(ctx, leagueID, provRec.Season, provRec.ExternalID),
	}, nil
}

// fetchProviderCached goes through the tiered cache. The tier is decided
// after the fetch from the freshly classified record: finished matches are
// kept for the life of the process, upcoming ones for a short TTL, live and
// unclassifiable ones are never stored.
func (s *MatchService) fetchProviderCached(ctx context.Context, leagueID, matchID string) (ProviderMatchRecord, error) {
	key := cache.Key{LeagueID: leagueID, MatchID: matchID}

	value, err := s.store.GetOrFetch(ctx, key, func(ctx context.Context) (any, cache.Tier, error) {
		rec, found, fetchErr := s.provider.GetMatch(ctx, leagueID, matchID)
		if fetchErr != nil {
			return nil, "", fetchErr
		}
		if !found {
			return nil, "", fmt.Errorf("%w: provider match league=%s id=%s", ErrNotFound, leagueID, matchID)
		}
		return rec, tierFor(match.ClassifyWithKickoff(rec.Status, rec.KickoffAt, s.now())), nil
	})
	if err != nil {
		return ProviderMatchRecord{}, err
	}

	rec, ok := value.(ProviderMatchRecord)
	if !ok {
		return ProviderMatchRecord{}, fmt.Errorf("unexpected cache payload type %T", value)
	}
	return rec, nil
}

func tierFor(category match.Category) cache.Tier {
	switch category {
	case match.CategoryFinished:
		return cache.TierPermanent
	case match.CategoryUpcoming:
		return cache.TierShortLived
	default:
		return cache.TierBypass
	}
}

// fetchLineupTolerant degrades to nil on any failure; a missing lineup is
// never fatal to the overall resolution.
func (s *MatchService) fetchLineupTolerant(ctx context.Context, leagueID, season, externalMatchID string) *lineup.Lineup {
	if externalMatchID == "" {
		return nil
	}
	sheets, found, err := s.provider.GetLineup(ctx, leagueID, season, externalMatchID)
	if err != nil {
		s.logger.WarnContext(ctx, "lineup fetch failed", "league_id", leagueID, "match_id", externalMatchID, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return &sheets
}

func (s *MatchService) archiveIfFinished(ctx context.Context, m match.UnifiedMatch) {
	if s.archive == nil || match.Classify(m.Status) != match.CategoryFinished {
		return
	}
	if err := s.archive.Upsert(ctx, m); err != nil {
		s.logger.WarnContext(ctx, "archive upsert failed", "match_id", m.ID, "error", err)
	}
}

// unifiedFromCMS builds the unified record from the CMS source alone.
func unifiedFromCMS(rec CMSMatchRecord) match.UnifiedMatch {
	return match.UnifiedMatch{
		ID:              rec.ID,
		LegacyID:        rec.LegacyID,
		ExternalMatchID: rec.ExternalMatchID,
		LeagueID:        rec.LeagueID,
		LeagueName:      rec.LeagueName,
		Season:          rec.Season,
		Slug:            rec.Slug,
		KickoffAt:       rec.KickoffAt,
		ModifiedAt:      rec.ModifiedAt,
		Status:          rec.Status,
		Arena:           rec.Arena,
		HomeTeam:        match.TeamRef{ID: rec.HomeTeamID, Name: rec.HomeTeamName},
		AwayTeam:        match.TeamRef{ID: rec.AwayTeamID, Name: rec.AwayTeamName},
		HomeScore:       rec.HomeScore,
		AwayScore:       rec.AwayScore,
		IsCustomGame:    rec.IsCustomGame,
		Overrides:       overridesFromCMS(rec),
	}
}

// mergeRecords merges the provider record into the CMS base. The provider
// supplies score, status, season and arena; the CMS override fields always
// win over homonymous provider values.
func mergeRecords(cmsRec CMSMatchRecord, provRec ProviderMatchRecord) match.UnifiedMatch {
	unified := unifiedFromCMS(cmsRec)

	unified.ExternalMatchID = firstNonEmpty(provRec.ExternalID, unified.ExternalMatchID)
	unified.Season = firstNonEmpty(provRec.Season, unified.Season)
	unified.Status = firstNonEmpty(provRec.Status, unified.Status)
	unified.Arena = firstNonEmpty(provRec.Arena, unified.Arena)
	if !provRec.KickoffAt.IsZero() {
		unified.KickoffAt = provRec.KickoffAt
	}
	if provRec.HomeScore != nil {
		unified.HomeScore = provRec.HomeScore
	}
	if provRec.AwayScore != nil {
		unified.AwayScore = provRec.AwayScore
	}
	if provRec.HomeTeam.Name != "" {
		unified.HomeTeam = provRec.HomeTeam
	}
	if provRec.AwayTeam.Name != "" {
		unified.AwayTeam = provRec.AwayTeam
	}
	unified.Referees = provRec.Referees

	// Overrides were populated from the CMS record in unifiedFromCMS and
	// are deliberately untouched here.
	return unified
}

func unifiedFromProvider(rec ProviderMatchRecord, leagueID string) match.UnifiedMatch {
	return match.UnifiedMatch{
		ID:              rec.ExternalID,
		ExternalMatchID: rec.ExternalID,
		LeagueID:        firstNonEmpty(rec.LeagueID, leagueID),
		LeagueName:      rec.LeagueName,
		Season:          rec.Season,
		KickoffAt:       rec.KickoffAt,
		Status:          rec.Status,
		Arena:           rec.Arena,
		HomeTeam:        rec.HomeTeam,
		AwayTeam:        rec.AwayTeam,
		HomeScore:       rec.HomeScore,
		AwayScore:       rec.AwayScore,
		Referees:        rec.Referees,
	}
}

func overridesFromCMS(rec CMSMatchRecord) match.Overrides {
	return match.Overrides{
		TicketURL:   rec.TicketURL,
		SoldTickets: rec.SoldTickets,
		CTAText:     rec.CTAText,
		CTALink:     rec.CTALink,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
