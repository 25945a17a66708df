package organize

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"worldsweep/internal/config"
	"worldsweep/internal/relocate"
	"worldsweep/internal/store"
)

// Per-kind stock images that were never customized; organizing them would
// only scatter copies of platform files.
const (
	defaultActorImg = "icons/svg/mystery-man.svg"
	defaultItemImg  = "icons/svg/item-bag.svg"
)

// Notifier delivers the organization summary to the operator.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Organizer moves every referenced asset file into the configured folder
// layout, one document kind at a time.
type Organizer struct {
	db       store.Store
	rel      *relocate.Relocator
	notifier Notifier
	cfg      config.OrganizeConfig
	operator config.Operator
	log      zerolog.Logger
}

func New(db store.Store, rel *relocate.Relocator, notifier Notifier, cfg config.OrganizeConfig, operator config.Operator, log zerolog.Logger) *Organizer {
	return &Organizer{db: db, rel: rel, notifier: notifier, cfg: cfg, operator: operator, log: log}
}

// Run organizes all asset files and sends one summary notification. Each
// document is processed sequentially; a failed move is recorded and the
// batch continues.
func (o *Organizer) Run(ctx context.Context) (*relocate.Results, error) {
	if !o.operator.Gamemaster {
		return nil, fmt.Errorf("organization requires gamemaster privileges")
	}

	results := &relocate.Results{}
	o.organizeActors(ctx, results)
	o.organizeScenes(ctx, results)
	o.organizeItems(ctx, results)
	o.organizeAudio(ctx, results)
	o.organizeAssets(ctx, results)

	if err := o.notifier.Notify(ctx, summary(results)); err != nil {
		return results, fmt.Errorf("sending organization summary: %w", err)
	}
	return results, nil
}

func (o *Organizer) organizeActors(ctx context.Context, results *relocate.Results) {
	actors, err := o.listKind(ctx, store.KindActor, results)
	if err != nil {
		return
	}
	o.log.Debug().Int("count", len(actors)).Msg("organizing actors")

	for _, actor := range actors {
		if actor.Img == "" || actor.Img == defaultActorImg {
			continue
		}
		target := o.cfg.NPCTokenFolder
		if actor.Type == "character" {
			target = o.cfg.PlayerTokenFolder
		}
		if o.cfg.RecreateTokenFolders && actor.FolderName != "" {
			target = target + "/" + actor.FolderName
		}
		o.moveOne(ctx, actor, actor.Img, target, relocate.Field("img"), results)
	}
}

func (o *Organizer) organizeScenes(ctx context.Context, results *relocate.Results) {
	scenes, err := o.listKind(ctx, store.KindScene, results)
	if err != nil {
		return
	}
	o.log.Debug().Int("count", len(scenes)).Msg("organizing scenes")

	for _, scene := range scenes {
		if scene.Img == "" {
			continue
		}
		target := o.cfg.ScenesFolder
		if o.cfg.RecreateSceneFolders && scene.FolderName != "" {
			target = target + "/" + scene.FolderName
		}
		o.moveOne(ctx, scene, scene.Img, target, relocate.Field("img"), results)
	}
}

func (o *Organizer) organizeItems(ctx context.Context, results *relocate.Results) {
	items, err := o.listKind(ctx, store.KindItem, results)
	if err != nil {
		return
	}
	o.log.Debug().Int("count", len(items)).Msg("organizing items")

	for _, item := range items {
		if item.Img == "" || item.Img == defaultItemImg {
			continue
		}
		target := o.cfg.ItemsFolder
		if o.cfg.RecreateItemsFolders && item.FolderName != "" {
			target = target + "/" + item.FolderName
		}
		o.moveOne(ctx, item, item.Img, target, relocate.Field("img"), results)
	}
}

// organizeAudio moves playlist sound files. Sounds are embedded, so the
// reference update goes through the parent playlist.
func (o *Organizer) organizeAudio(ctx context.Context, results *relocate.Results) {
	playlists, err := o.listKind(ctx, store.KindPlaylist, results)
	if err != nil {
		return
	}
	o.log.Debug().Int("count", len(playlists)).Msg("organizing playlists")

	for _, playlist := range playlists {
		for i := range playlist.Sounds {
			sound := &playlist.Sounds[i]
			if sound.Path == "" {
				continue
			}
			target := o.cfg.AudioFolder
			if o.cfg.RecreateAudioFolders && playlist.FolderName != "" {
				target = target + "/" + playlist.FolderName
			}
			field := relocate.EmbeddedField(store.EmbeddedSound, sound.ID)
			if err := o.rel.Relocate(ctx, sound.Path, target, playlist, field, results); err != nil {
				o.log.Debug().Err(err).Str("sound", sound.Name).Msg("could not organize audio file")
				results.Failed = append(results.Failed, relocate.Failure{
					Kind: playlist.Kind, Name: sound.Name, File: sound.Path, Err: err,
				})
			}
		}
	}
}

// organizeAssets covers journal and macro images, which share the general
// assets folder.
func (o *Organizer) organizeAssets(ctx context.Context, results *relocate.Results) {
	for _, kind := range []store.Kind{store.KindJournalEntry, store.KindMacro} {
		records, err := o.listKind(ctx, kind, results)
		if err != nil {
			continue
		}
		o.log.Debug().Int("count", len(records)).Msgf("organizing %s images", kind)

		for _, rec := range records {
			if rec.Img == "" {
				continue
			}
			target := o.cfg.AssetsFolder
			if o.cfg.RecreateAssetsFolders && rec.FolderName != "" {
				target = target + "/" + rec.FolderName
			}
			o.moveOne(ctx, rec, rec.Img, target, relocate.Field("img"), results)
		}
	}
}

func (o *Organizer) listKind(ctx context.Context, kind store.Kind, results *relocate.Results) ([]*store.Record, error) {
	records, err := o.db.List(ctx, kind)
	if err != nil {
		o.log.Error().Err(err).Str("kind", string(kind)).Msg("could not list documents")
		results.Warnings = append(results.Warnings, fmt.Sprintf("could not list %s documents: %v", kind, err))
		return nil, err
	}
	return records, nil
}

func (o *Organizer) moveOne(ctx context.Context, rec *store.Record, file, target string, field relocate.FieldRef, results *relocate.Results) {
	if err := o.rel.Relocate(ctx, file, target, rec, field, results); err != nil {
		o.log.Debug().Err(err).Str("kind", string(rec.Kind)).Str("name", rec.Name).Msg("could not organize file")
		results.Failed = append(results.Failed, relocate.Failure{
			Kind: rec.Kind, Name: rec.Name, File: file, Err: err,
		})
	}
}

func summary(results *relocate.Results) string {
	var b strings.Builder
	b.WriteString("Worldsweep organization complete.")
	fmt.Fprintf(&b, "\nMoved: %d", results.Success)

	if len(results.Failed) > 0 {
		b.WriteString("\nFailed:")
		for _, f := range results.Failed {
			fmt.Fprintf(&b, "\n- %s: %s (%s): %v", f.Kind, f.Name, f.File, f.Err)
		}
	}
	if len(results.Warnings) > 0 {
		b.WriteString("\nWarnings:")
		for _, w := range results.Warnings {
			fmt.Fprintf(&b, "\n- %s", w)
		}
	}
	return b.String()
}
