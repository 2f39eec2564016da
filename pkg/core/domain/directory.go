package domain

import (
	"encoding/json"
	"log"
)

// LinkRecord is one configured destination in the directory.
type LinkRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Note      string `json:"note"`
	URL       string `json:"url"`
	BackupURL string `json:"backup_url,omitempty"`
}

// FriendRecord is a partner link shown alongside the directory.
type FriendRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Directory is the static set of navigable entries. It is built once from
// configuration and read-only afterwards.
type Directory struct {
	Links   []LinkRecord
	Friends []FriendRecord

	linksByID   map[string]int
	friendsByID map[string]int
}

func NewDirectory(links []LinkRecord, friends []FriendRecord) *Directory {
	d := &Directory{
		Links:       links,
		Friends:     friends,
		linksByID:   make(map[string]int, len(links)),
		friendsByID: make(map[string]int, len(friends)),
	}
	for i, l := range links {
		d.linksByID[l.ID] = i
	}
	for i, f := range friends {
		d.friendsByID[f.ID] = i
	}
	return d
}

// ParseDirectory builds a Directory from the serialized LINKS and FRIENDS
// documents. A sequence that fails to parse degrades to empty instead of
// aborting startup.
func ParseDirectory(linksJSON, friendsJSON string) *Directory {
	var links []LinkRecord
	if linksJSON != "" {
		if err := json.Unmarshal([]byte(linksJSON), &links); err != nil {
			log.Printf("parse LINKS failed, using empty set: %v", err)
			links = nil
		}
	}

	var friends []FriendRecord
	if friendsJSON != "" {
		if err := json.Unmarshal([]byte(friendsJSON), &friends); err != nil {
			log.Printf("parse FRIENDS failed, using empty set: %v", err)
			friends = nil
		}
	}

	return NewDirectory(links, friends)
}

// Link returns the link record for id, or nil if it is not configured.
func (d *Directory) Link(id string) *LinkRecord {
	if i, ok := d.linksByID[id]; ok {
		return &d.Links[i]
	}
	return nil
}

// Friend returns the friend record for id, or nil if it is not configured.
func (d *Directory) Friend(id string) *FriendRecord {
	if i, ok := d.friendsByID[id]; ok {
		return &d.Friends[i]
	}
	return nil
}

// ActiveIDs returns the identifiers currently present in the directory
// (links and friends). Stat rows outside this set are stale and excluded
// from aggregate totals.
func (d *Directory) ActiveIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Links)+len(d.Friends))
	for _, l := range d.Links {
		ids[l.ID] = struct{}{}
	}
	for _, f := range d.Friends {
		ids[f.ID] = struct{}{}
	}
	return ids
}
