// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat room screen.
//
// The screen drives a session.Session through the Bubble Tea loop: loading
// runs in a command, a send is split into BeginSend (applied immediately so
// the user's line shows at once), Deliver (in a command) and CompleteSend
// (applied when the reply message arrives). The image panel always reflects
// the session's current image.
//
// Keys:
//
//	enter      send
//	esc        back to the character list
//	ctrl+s     toggle safe mode
//	ctrl+y     copy the last reply
//	ctrl+o     copy the current image reference
//	ctrl+p     show or hide the image panel
//	pgup/pgdn  scroll
//	r          retry after a load failure
package chat
