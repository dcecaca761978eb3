package recnet

import (
	"strings"
	"time"
)

// ImageHost serves the files named by ImageName fields.
const ImageHost = "https://img.rec.net/"

// ImageURL returns the public URL of an image file name.
func ImageURL(name string) string {
	if name == "" {
		return ""
	}
	return ImageHost + strings.TrimPrefix(name, "/")
}

// Account is a RecNet player account.
type Account struct {
	ID               int64     `json:"accountId"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"displayName"`
	ProfileImage     string    `json:"profileImage"`
	BannerImage      string    `json:"bannerImage"`
	IsJunior         bool      `json:"isJunior"`
	PlatformMask     int64     `json:"platforms"`
	PronounMask      int64     `json:"personalPronouns"`
	IdentityFlagMask int64     `json:"identityFlags"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Platforms returns the platforms the account has played on.
func (a *Account) Platforms() []string {
	return DecodeBitmask(a.PlatformMask, PlatformNames)
}

// Pronouns returns the account's personal pronouns.
func (a *Account) Pronouns() []string {
	return DecodeBitmask(a.PronounMask, PronounNames)
}

// IdentityFlags returns the identity flags shown on the profile.
func (a *Account) IdentityFlags() []string {
	return DecodeBitmask(a.IdentityFlagMask, IdentityFlagNames)
}

// FilterFields exposes the account to filter expressions.
func (a *Account) FilterFields() map[string]any {
	return map[string]any{
		"ID":            a.ID,
		"Username":      a.Username,
		"DisplayName":   a.DisplayName,
		"IsJunior":      a.IsJunior,
		"Platforms":     a.Platforms(),
		"Pronouns":      a.Pronouns(),
		"IdentityFlags": a.IdentityFlags(),
		"CreatedAt":     a.CreatedAt,
	}
}

// Progression is an account's level and experience.
type Progression struct {
	PlayerID int64 `json:"PlayerId"`
	Level    int   `json:"Level"`
	XP       int   `json:"XP"`
}

// RoomStats holds a room's engagement counters.
type RoomStats struct {
	CheerCount    int64 `json:"CheerCount"`
	FavoriteCount int64 `json:"FavoriteCount"`
	VisitorCount  int64 `json:"VisitorCount"`
	VisitCount    int64 `json:"VisitCount"`
}

// Room is a RecNet room.
type Room struct {
	ID               int64         `json:"RoomId"`
	Name             string        `json:"Name"`
	Description      string        `json:"Description"`
	ImageName        string        `json:"ImageName"`
	WarningMask      int64         `json:"WarningMask"`
	CustomWarning    string        `json:"CustomWarning"`
	CreatorAccountID int64         `json:"CreatorAccountId"`
	State            int           `json:"State"`
	Accessibility    Accessibility `json:"Accessibility"`
	IsDorm           bool          `json:"IsDorm"`
	MaxPlayers       int           `json:"MaxPlayers"`
	CloningAllowed   bool          `json:"CloningAllowed"`
	SupportsJuniors  bool          `json:"SupportsJuniors"`
	MinLevel         int           `json:"MinLevel"`
	CreatedAt        time.Time     `json:"CreatedAt"`
	Stats            RoomStats     `json:"Stats"`
}

// Warnings returns the content warnings set on the room.
func (r *Room) Warnings() []string {
	return DecodeBitmask(r.WarningMask, RoomWarningNames)
}

// FilterFields exposes the room to filter expressions.
func (r *Room) FilterFields() map[string]any {
	return map[string]any{
		"ID":               r.ID,
		"Name":             r.Name,
		"Description":      r.Description,
		"CreatorAccountID": r.CreatorAccountID,
		"Accessibility":    r.Accessibility.String(),
		"IsDorm":           r.IsDorm,
		"MaxPlayers":       r.MaxPlayers,
		"SupportsJuniors":  r.SupportsJuniors,
		"MinLevel":         r.MinLevel,
		"Warnings":         r.Warnings(),
		"CreatedAt":        r.CreatedAt,
		"Cheers":           r.Stats.CheerCount,
		"Favorites":        r.Stats.FavoriteCount,
		"Visitors":         r.Stats.VisitorCount,
		"Visits":           r.Stats.VisitCount,
	}
}

// Event is a player event.
type Event struct {
	ID              int64         `json:"PlayerEventId"`
	CreatorPlayerID int64         `json:"CreatorPlayerId"`
	ImageName       string        `json:"ImageName"`
	RoomID          int64         `json:"RoomId"`
	ClubID          int64         `json:"ClubId"`
	Name            string        `json:"Name"`
	Description     string        `json:"Description"`
	StartTime       time.Time     `json:"StartTime"`
	EndTime         time.Time     `json:"EndTime"`
	AttendeeCount   int           `json:"AttendeeCount"`
	Accessibility   Accessibility `json:"Accessibility"`
}

// FilterFields exposes the event to filter expressions.
func (e *Event) FilterFields() map[string]any {
	return map[string]any{
		"ID":              e.ID,
		"CreatorPlayerID": e.CreatorPlayerID,
		"RoomID":          e.RoomID,
		"ClubID":          e.ClubID,
		"Name":            e.Name,
		"Description":     e.Description,
		"StartTime":       e.StartTime,
		"EndTime":         e.EndTime,
		"AttendeeCount":   e.AttendeeCount,
		"Accessibility":   e.Accessibility.String(),
	}
}

// Image is a photo posted to RecNet.
type Image struct {
	ID              int64     `json:"Id"`
	ImageName       string    `json:"ImageName"`
	Description     string    `json:"Description"`
	PlayerID        int64     `json:"PlayerId"`
	TaggedPlayerIDs []int64   `json:"TaggedPlayerIds"`
	RoomID          int64     `json:"RoomId"`
	PlayerEventID   int64     `json:"PlayerEventId"`
	CreatedAt       time.Time `json:"CreatedAt"`
	CheerCount      int       `json:"CheerCount"`
	CommentCount    int       `json:"CommentCount"`
}

// URL returns the public URL of the image.
func (i *Image) URL() string {
	return ImageURL(i.ImageName)
}

// FilterFields exposes the image to filter expressions.
func (i *Image) FilterFields() map[string]any {
	return map[string]any{
		"ID":            i.ID,
		"ImageName":     i.ImageName,
		"Description":   i.Description,
		"PlayerID":      i.PlayerID,
		"TaggedPlayers": i.TaggedPlayerIDs,
		"RoomID":        i.RoomID,
		"PlayerEventID": i.PlayerEventID,
		"CreatedAt":     i.CreatedAt,
		"Cheers":        i.CheerCount,
		"Comments":      i.CommentCount,
	}
}

// Invention is a published or private invention.
type Invention struct {
	ID                       int64               `json:"InventionId"`
	ReplicationID            string              `json:"ReplicationId"`
	CreatorPlayerID          int64               `json:"CreatorPlayerId"`
	Name                     string              `json:"Name"`
	Description              string              `json:"Description"`
	ImageName                string              `json:"ImageName"`
	CurrentVersionNumber     int                 `json:"CurrentVersionNumber"`
	Accessibility            Accessibility       `json:"Accessibility"`
	IsPublished              bool                `json:"IsPublished"`
	IsFeatured               bool                `json:"IsFeatured"`
	ModifiedAt               time.Time           `json:"ModifiedAt"`
	CreatedAt                time.Time           `json:"CreatedAt"`
	FirstPublishedAt         time.Time           `json:"FirstPublishedAt"`
	CreationRoomID           int64               `json:"CreationRoomId"`
	NumPlayersHaveUsedInRoom int64               `json:"NumPlayersHaveUsedInRoom"`
	NumDownloads             int64               `json:"NumDownloads"`
	CheerCount               int64               `json:"CheerCount"`
	CreatorPermission        InventionPermission `json:"CreatorPermission"`
	GeneralPermission        InventionPermission `json:"GeneralPermission"`
	IsAGInvention            bool                `json:"IsAGInvention"`
	IsCertifiedInvention     bool                `json:"IsCertifiedInvention"`
	Price                    int                 `json:"Price"`
	AllowTrial               bool                `json:"AllowTrial"`
	HideFromPlayer           bool                `json:"HideFromPlayer"`
}

// FilterFields exposes the invention to filter expressions.
func (i *Invention) FilterFields() map[string]any {
	return map[string]any{
		"ID":                i.ID,
		"CreatorPlayerID":   i.CreatorPlayerID,
		"Name":              i.Name,
		"Description":       i.Description,
		"Accessibility":     i.Accessibility.String(),
		"IsPublished":       i.IsPublished,
		"IsFeatured":        i.IsFeatured,
		"IsCertified":       i.IsCertifiedInvention,
		"Downloads":         i.NumDownloads,
		"Cheers":            i.CheerCount,
		"Price":             i.Price,
		"GeneralPermission": i.GeneralPermission.String(),
		"CreatedAt":         i.CreatedAt,
		"ModifiedAt":        i.ModifiedAt,
	}
}
