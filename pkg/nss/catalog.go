// SPDX-License-Identifier: MPL-2.0

package nss

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// knownIDs are the built-in Nilesoft Shell menu ids offered for the sections.
var knownIDs = []string{
	"id.add_a_network_location", "id.align_icons_to_grid", "id.arrange_by",
	"id.auto_arrange_icons", "id.autoplay", "id.cancel", "id.cascade_windows",
	"id.cast_to_device", "id.cleanup", "id.collapse", "id.collapse_all_groups",
	"id.collapse_group", "id.command_prompt", "id.compressed", "id.configure",
	"id.content", "id.control_panel", "id.copy", "id.copy_as_path", "id.copy_here",
	"id.copy_path", "id.copy_to", "id.copy_to_folder", "id.cortana", "id.create_shortcut",
	"id.create_shortcuts_here", "id.customize_notification_icons",
	"id.customize_this_folder", "id.cut", "id.delete", "id.desktop", "id.details",
	"id.device_manager", "id.disconnect", "id.disconnect_network_drive",
	"id.display_settings", "id.edit", "id.eject", "id.empty_recycle_bin",
	"id.erase_this_disc", "id.exit_explorer", "id.expand", "id.expand_all_groups",
	"id.expand_group", "id.extra_large_icons", "id.extract_all", "id.extract_to",
	"id.file_explorer", "id.folder_options", "id.format", "id.give_access_to",
	"id.group_by", "id.include_in_library", "id.insert_unicode_control_character",
	"id.install", "id.large_icons", "id.list", "id.lock_all_taskbars",
	"id.lock_the_taskbar", "id.make_available_offline", "id.make_available_online",
	"id.manage", "id.map_as_drive", "id.map_network_drive", "id.medium_icons", "id.merge",
	"id.more_options", "id.mount", "id.move_here", "id.move_to", "id.move_to_folder",
	"id.new", "id.new_folder", "id.new_item", "id.news_and_interests",
	"id.next_desktop_background", "id.open", "id.open_as_portable", "id.open_autoplay",
	"id.open_command_prompt", "id.open_command_window_here", "id.open_file_location",
	"id.open_folder_location", "id.open_in_new_process", "id.open_in_new_tab",
	"id.open_in_new_window", "id.open_new_tab", "id.open_new_window",
	"id.open_powershell_window_here", "id.open_windows_powershell", "id.open_with",
	"id.options", "id.paste", "id.paste_shortcut", "id.personalize",
	"id.pin_current_folder_to_quick_access", "id.pin_to_quick_access", "id.pin_to_start",
	"id.pin_to_taskbar", "id.play", "id.power_options", "id.preview", "id.print",
	"id.properties", "id.reconversion", "id.redo", "id.refresh",
	"id.remove_from_quick_access", "id.remove_properties", "id.rename", "id.restore",
	"id.restore_default_libraries", "id.restore_previous_versions", "id.rotate_left",
	"id.rotate_right", "id.run", "id.run_as_administrator", "id.run_as_another_user",
	"id.search", "id.select_all", "id.send_to", "id.set_as_desktop_background",
	"id.set_as_desktop_wallpaper", "id.settings", "id.share", "id.share_with",
	"id.shield", "id.show_cortana_button", "id.show_desktop_icons",
	"id.show_file_extensions", "id.show_hidden_files", "id.show_libraries",
	"id.show_network", "id.show_pen_button", "id.show_people_on_the_taskbar",
	"id.show_task_view_button", "id.show_the_desktop", "id.show_this_pc",
	"id.show_touch_keyboard_button", "id.show_touchpad_button", "id.show_windows_stacked",
	"id.small_icons", "id.sort_by", "id.store", "id.task_manager", "id.taskbar_settings",
	"id.tiles", "id.troubleshoot_compatibility", "id.turn_off_bitlocker",
	"id.turn_on_bitlocker", "id.undo", "id.unpin_from_quick_access",
	"id.unpin_from_start", "id.unpin_from_taskbar", "id.view",
}

// KnownIDs returns the built-in menu ids in alphabetical order.
func KnownIDs() []string {
	return slices.Clone(knownIDs)
}

// AvailableIDs returns the ids of candidates not listed by any of used, in
// candidate order.
func AvailableIDs(candidates []string, used ...[]string) []string {
	taken := make(map[string]struct{})
	for _, list := range used {
		for _, id := range list {
			taken[strings.TrimSuffix(strings.TrimSpace(id), ",")] = struct{}{}
		}
	}
	out := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := taken[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// DisplayName turns an id into the label a menu editor shows for it:
// "id.open_in_new_window" becomes "Open in new window".
func DisplayName(id string) string {
	id = strings.TrimPrefix(id, idPrefix+".")
	parts := strings.Split(strings.ReplaceAll(id, "_", " "), ".")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// FilterIDs keeps the ids whose id or display name contains query, ignoring
// case. An empty query keeps everything.
func FilterIDs(ids []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.Contains(strings.ToLower(id), query) ||
			strings.Contains(strings.ToLower(DisplayName(id)), query) {
			out = append(out, id)
		}
	}
	return out
}
