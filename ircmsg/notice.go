package ircmsg

// NoticeKind is the closed set of Twitch `msg-id` values a NOTICE can carry
// (spec.md §4.3, Notice.kind()). NoticeKindOther covers any value Twitch
// adds that this client doesn't yet recognize.
type NoticeKind uint8

const (
	NoticeKindOther NoticeKind = iota
	NoticeSubsOn
	NoticeSubsOff
	NoticeEmoteOnlyOn
	NoticeEmoteOnlyOff
	NoticeSlowOn
	NoticeSlowOff
	NoticeFollowersOn
	NoticeFollowersOff
	NoticeR9KOn
	NoticeR9KOff
	NoticeHostOn
	NoticeHostOff
	NoticeMsgChannelSuspended
	NoticeMsgBanned
	NoticeMsgRatelimit
	NoticeMsgDuplicate
	NoticeMsgFollowersOnly
	NoticeMsgSubsOnly
	NoticeMsgEmoteOnly
	NoticeMsgSlowMode
	NoticeMsgR9K
	NoticeNoPermission
	NoticeUnrecognizedCmd
	NoticeMsgRoomNotFound
	NoticeMsgTimedout
	NoticeMsgRejected
)

var noticeKindNames = map[string]NoticeKind{
	"subs_on":               NoticeSubsOn,
	"subs_off":              NoticeSubsOff,
	"emote_only_on":         NoticeEmoteOnlyOn,
	"emote_only_off":        NoticeEmoteOnlyOff,
	"slow_on":               NoticeSlowOn,
	"slow_off":              NoticeSlowOff,
	"followers_on":          NoticeFollowersOn,
	"followers_off":         NoticeFollowersOff,
	"r9k_on":                NoticeR9KOn,
	"r9k_off":               NoticeR9KOff,
	"host_on":               NoticeHostOn,
	"host_off":              NoticeHostOff,
	"msg_channel_suspended": NoticeMsgChannelSuspended,
	"msg_banned":            NoticeMsgBanned,
	"msg_ratelimit":         NoticeMsgRatelimit,
	"msg_duplicate":         NoticeMsgDuplicate,
	"msg_followersonly":     NoticeMsgFollowersOnly,
	"msg_subsonly":          NoticeMsgSubsOnly,
	"msg_emoteonly":         NoticeMsgEmoteOnly,
	"msg_slowmode":          NoticeMsgSlowMode,
	"msg_r9k":               NoticeMsgR9K,
	"no_permission":         NoticeNoPermission,
	"unrecognized_cmd":      NoticeUnrecognizedCmd,
	"msg_room_not_found":    NoticeMsgRoomNotFound,
	"msg_timedout":          NoticeMsgTimedout,
	"msg_rejected":          NoticeMsgRejected,
}

func parseNoticeKind(msgID string) NoticeKind {
	if k, ok := noticeKindNames[msgID]; ok {
		return k
	}
	return NoticeKindOther
}
