package ircmsg

import (
	"strconv"
	"strings"
	"time"
)

// TagKey is a closed set of well-known IRCv3/Twitch tag keys, with an
// Unknown fallback that remembers the original key range so re-serializing
// a message never loses data (spec.md §3, Tags).
type TagKey uint8

const (
	TagUnknown TagKey = iota
	TagBadgeInfo
	TagBadges
	TagBanDuration
	TagBits
	TagClientNonce
	TagColor
	TagCustomRewardID
	TagDisplayName
	TagEmoteOnly
	TagEmoteSets
	TagEmotes
	TagFirstMsg
	TagFlags
	TagFollowersOnly
	TagID
	TagLogin
	TagMessageID
	TagMod
	TagMsgID
	TagMsgParamCumulativeMonths
	TagMsgParamDisplayName
	TagMsgParamGiftMonths
	TagMsgParamLogin
	TagMsgParamMonths
	TagMsgParamMultimonthDuration
	TagMsgParamMultimonthTenure
	TagMsgParamRecipientDisplayName
	TagMsgParamRecipientID
	TagMsgParamRecipientUserName
	TagMsgParamSenderCount
	TagMsgParamShouldShareStreak
	TagMsgParamStreakMonths
	TagMsgParamSubPlan
	TagMsgParamSubPlanName
	TagMsgParamViewerCount
	TagR9K
	TagReplyParentDisplayName
	TagReplyParentMsgBody
	TagReplyParentMsgID
	TagReplyParentUserID
	TagReplyParentUserLogin
	TagReplyThreadParentMsgID
	TagReplyThreadParentUserLogin
	TagReturningChatter
	TagRoomID
	TagSlow
	TagSubscriber
	TagSubsOnly
	TagSystemMsg
	TagTargetMsgID
	TagTargetUserID
	TagThreadID
	TagTmiSentTS
	TagTurbo
	TagUserID
	TagUserType
	TagVIP
)

var tagKeyNames = map[string]TagKey{
	"badge-info":                      TagBadgeInfo,
	"badges":                          TagBadges,
	"ban-duration":                    TagBanDuration,
	"bits":                            TagBits,
	"client-nonce":                    TagClientNonce,
	"color":                           TagColor,
	"custom-reward-id":                TagCustomRewardID,
	"display-name":                    TagDisplayName,
	"emote-only":                      TagEmoteOnly,
	"emote-sets":                      TagEmoteSets,
	"emotes":                          TagEmotes,
	"first-msg":                       TagFirstMsg,
	"flags":                           TagFlags,
	"followers-only":                  TagFollowersOnly,
	"id":                              TagID,
	"login":                           TagLogin,
	"message-id":                      TagMessageID,
	"mod":                             TagMod,
	"msg-id":                          TagMsgID,
	"msg-param-cumulative-months":     TagMsgParamCumulativeMonths,
	"msg-param-displayName":           TagMsgParamDisplayName,
	"msg-param-gift-months":           TagMsgParamGiftMonths,
	"msg-param-login":                 TagMsgParamLogin,
	"msg-param-months":                TagMsgParamMonths,
	"msg-param-multimonth-duration":   TagMsgParamMultimonthDuration,
	"msg-param-multimonth-tenure":     TagMsgParamMultimonthTenure,
	"msg-param-recipient-display-name": TagMsgParamRecipientDisplayName,
	"msg-param-recipient-id":          TagMsgParamRecipientID,
	"msg-param-recipient-user-name":   TagMsgParamRecipientUserName,
	"msg-param-sender-count":          TagMsgParamSenderCount,
	"msg-param-should-share-streak":   TagMsgParamShouldShareStreak,
	"msg-param-streak-months":         TagMsgParamStreakMonths,
	"msg-param-sub-plan":              TagMsgParamSubPlan,
	"msg-param-sub-plan-name":         TagMsgParamSubPlanName,
	"msg-param-viewerCount":           TagMsgParamViewerCount,
	"r9k":                             TagR9K,
	"reply-parent-display-name":       TagReplyParentDisplayName,
	"reply-parent-msg-body":           TagReplyParentMsgBody,
	"reply-parent-msg-id":             TagReplyParentMsgID,
	"reply-parent-user-id":            TagReplyParentUserID,
	"reply-parent-user-login":         TagReplyParentUserLogin,
	"reply-thread-parent-msg-id":      TagReplyThreadParentMsgID,
	"reply-thread-parent-user-login":  TagReplyThreadParentUserLogin,
	"returning-chatter":               TagReturningChatter,
	"room-id":                         TagRoomID,
	"slow":                            TagSlow,
	"subscriber":                      TagSubscriber,
	"subs-only":                       TagSubsOnly,
	"system-msg":                      TagSystemMsg,
	"target-msg-id":                   TagTargetMsgID,
	"target-user-id":                  TagTargetUserID,
	"thread-id":                       TagThreadID,
	"tmi-sent-ts":                     TagTmiSentTS,
	"turbo":                           TagTurbo,
	"user-id":                         TagUserID,
	"user-type":                       TagUserType,
	"vip":                             TagVIP,
}

var tagKeyText map[TagKey]string

func init() {
	tagKeyText = make(map[TagKey]string, len(tagKeyNames))
	for name, key := range tagKeyNames {
		tagKeyText[key] = name
	}
}

// String returns the wire-form key name, or "" for TagUnknown (callers of
// Unknown ranges should use the raw range instead).
func (k TagKey) String() string {
	return tagKeyText[k]
}

// tagEntry is one parsed `key[=value]` pair. key holds the closed enum
// (TagUnknown for unrecognised keys), and keyRange is always the byte range
// of the original key so re-serialization is lossless.
type tagEntry struct {
	key      TagKey
	keyRange Range
	valRange Range
}

// Tags is the ordered, possibly-repeating sequence of tag pairs on a
// message, per spec.md §3: order is preserved, not collapsed.
type Tags struct {
	raw     string
	entries []tagEntry
}

// parseTags splits `k=v;k=v` (the substring between '@' and the following
// space) into ordered entries. Mirrors the single-pass structure of the
// teacher's irc/parser.go parseTags, but stores ranges instead of copies.
func parseTags(raw string, lo, hi int) Tags {
	t := Tags{raw: raw}
	if lo >= hi {
		return t
	}
	body := raw[lo:hi]
	start := 0
	for start <= len(body) {
		end := strings.IndexByte(body[start:], ';')
		var segment string
		if end == -1 {
			segment = body[start:]
		} else {
			segment = body[start : start+end]
		}
		if segment != "" {
			eq := strings.IndexByte(segment, '=')
			var keyStr, valStr string
			var keyLo, keyHi, valLo, valHi int
			if eq == -1 {
				keyStr = segment
				keyLo, keyHi = lo+start, lo+start+len(segment)
				valLo, valHi = keyHi, keyHi
			} else {
				keyStr = segment[:eq]
				valStr = segment[eq+1:]
				keyLo, keyHi = lo+start, lo+start+eq
				valLo, valHi = keyHi+1, lo+start+len(segment)
			}
			key, ok := tagKeyNames[keyStr]
			_ = valStr
			if !ok {
				key = TagUnknown
			}
			t.entries = append(t.entries, tagEntry{
				key:      key,
				keyRange: Range{keyLo, keyHi},
				valRange: Range{valLo, valHi},
			})
		}
		if end == -1 {
			break
		}
		start += end + 1
	}
	return t
}

// Get looks up a well-known tag by walking the ordered list (spec.md §4.1:
// O(n) in tag count, n is small). Returns ok=false if the tag is absent.
func (t Tags) Get(key TagKey) (string, bool) {
	if key == TagUnknown {
		return "", false
	}
	for _, e := range t.entries {
		if e.key == key {
			return t.raw[e.valRange.Lo:e.valRange.Hi], true
		}
	}
	return "", false
}

// GetOr is Get with a default for the absent case.
func (t Tags) GetOr(key TagKey, def string) string {
	if v, ok := t.Get(key); ok {
		return v
	}
	return def
}

// Len reports the number of tag entries, including unknown and repeated ones.
func (t Tags) Len() int { return len(t.entries) }

// TagPair is one (key, value) pair yielded by Tags.All, with the raw key
// text preserved for TagUnknown entries.
type TagPair struct {
	Key      TagKey
	RawKey   string
	Value    string
}

// All returns every tag pair in original order, the i-th pair matching the
// i-th `;`-delimited input segment (spec.md §8 parser invariant).
func (t Tags) All() []TagPair {
	pairs := make([]TagPair, len(t.entries))
	for i, e := range t.entries {
		pairs[i] = TagPair{
			Key:    e.key,
			RawKey: t.raw[e.keyRange.Lo:e.keyRange.Hi],
			Value:  t.raw[e.valRange.Lo:e.valRange.Hi],
		}
	}
	return pairs
}

// Color decodes the `color` tag if it has the exact form #RRGGBB; any other
// value (including absent) returns ok=false, per spec.md §4.1.
func (t Tags) Color() (rgb [3]byte, ok bool) {
	v, has := t.Get(TagColor)
	if !has || len(v) != 7 || v[0] != '#' {
		return rgb, false
	}
	for i := 0; i < 3; i++ {
		b, err := strconv.ParseUint(v[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return rgb, false
		}
		rgb[i] = byte(b)
	}
	return rgb, true
}

// Timestamp decodes `tmi-sent-ts` as milliseconds-since-epoch into a UTC
// instant, per spec.md §4.1.
func (t Tags) Timestamp() (time.Time, bool) {
	v, ok := t.Get(TagTmiSentTS)
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// Bool parses a "0"/"1" tag value; absent or malformed is false.
func (t Tags) Bool(key TagKey) bool {
	v, ok := t.Get(key)
	return ok && v == "1"
}

// Int parses an integer tag value; absent or malformed is 0.
func (t Tags) Int(key TagKey) int {
	v, ok := t.Get(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// Badge is one (name, version) pair from the `badges` tag.
type Badge struct {
	Name    string
	Version string
}

// Badges iterates the `badges` tag value (`name/version(,name/version)*`)
// without allocating an intermediate map, per spec.md §4.1.
func (t Tags) Badges() []Badge {
	return parseBadgeList(t.GetOr(TagBadges, ""))
}

// HasBadge reports whether the named badge is present, at any version.
func (t Tags) HasBadge(name string) bool {
	for _, b := range t.Badges() {
		if b.Name == name {
			return true
		}
	}
	return false
}

func parseBadgeList(s string) []Badge {
	if s == "" {
		return nil
	}
	var out []Badge
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		if slash := strings.IndexByte(part, '/'); slash != -1 {
			out = append(out, Badge{Name: part[:slash], Version: part[slash+1:]})
		} else {
			out = append(out, Badge{Name: part})
		}
	}
	return out
}

// Emote is one occurrence of an emote within a message body, decoded from
// the `emotes` tag (`id:start-end,start-end/id:start-end`).
type Emote struct {
	ID    string
	Start int
	End   int
}

// Emotes decodes the `emotes` tag.
func (t Tags) Emotes() []Emote {
	v := t.GetOr(TagEmotes, "")
	if v == "" {
		return nil
	}
	var out []Emote
	for _, part := range strings.Split(v, "/") {
		if part == "" {
			continue
		}
		colon := strings.IndexByte(part, ':')
		if colon == -1 {
			continue
		}
		id := part[:colon]
		for _, posStr := range strings.Split(part[colon+1:], ",") {
			dash := strings.IndexByte(posStr, '-')
			if dash == -1 {
				continue
			}
			start, err1 := strconv.Atoi(posStr[:dash])
			end, err2 := strconv.Atoi(posStr[dash+1:])
			if err1 != nil || err2 != nil {
				continue
			}
			out = append(out, Emote{ID: id, Start: start, End: end})
		}
	}
	return out
}
