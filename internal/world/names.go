package world

import (
	"regexp"
	"strings"
)

// nameRule rewrites part of a client region name. Rules apply in order and
// later rules see the output of earlier ones.
type nameRule struct {
	from, to string
	re       *regexp.Regexp
}

func (r nameRule) apply(s string) string {
	if r.re != nil {
		return r.re.ReplaceAllString(s, r.to)
	}
	return strings.ReplaceAll(s, r.from, r.to)
}

func lit(from, to string) nameRule { return nameRule{from: from, to: to} }

func rx(expr, to string) nameRule { return nameRule{re: regexp.MustCompile(expr), to: to} }

var regionNameRules = []nameRule{
	lit("Tin_Beginner_Tutorial", "tir_beginner"),
	lit("Uladh_Cobh_to_Belfast", "cobh_to_belfast"),
	lit("Uladh_Belfast_to_Cobh", "belfast_to_cobh"),
	lit("Cobh_to_Belfast", "cobh_to_belfast_ocean"),
	lit("Belfast_to_Cobh", "belfast_to_cobh_ocean"),
	lit("MonsterRegion", "monster_region"),
	lit("Uladh_main", "tir"),
	lit("Uladh_TirCho_", "tir_"),
	lit("Uladh_Dunbarton", "dunbarton"),
	lit("Uladh_Dun_to_Tircho", "dugald_aisle"),
	lit("Ula_Tirnanog", "tnn"),
	lit("Ula_DgnHall_Dunbarton_before1", "rabbie_altar"),
	lit("Ula_DgnHall_Dunbarton_before2", "math_altar"),
	lit("MiscShop", "general"),
	lit("tir_ChiefHouse", "tir_duncan"),
	lit("Uladh_Dungeon_Black_Wolfs_Hall1", "ciar_altar"),
	lit("Uladh_Dungeon_Black_Wolfs_Hall2", "ciar_entrance"),
	lit("Uladh_Dungeon_Beginners_Hall1", "alby_altar"),
	lit("Uladh_Cobh_harbor", "cobh"),
	lit("Ula_DgnHall_Dunbarton_after", "rabbie_entrance"),
	lit("Ula_hardmode_DgnHall_TirChonaill_before", "alby_hard_altar"),
	lit("Ula_DgnArena_Tircho_Lobby", "alby_arena_lobby"),
	lit("Ula_DgnArena_Tircho_Arena", "alby_arena"),
	lit("Ula_Dun_to_Bangor", "gairech"),
	lit("Ula_Bangor", "bangor"),
	lit("Ula_DgnHall_Bangor_before1", "barri_altar"),
	lit("Ula_DgnHall_Bangor_before2", "barri_entrance_test"),
	lit("Ula_DgnHall_Bangor_after", "barri_entrance"),
	lit("tnn_ChiefHouse", "tnn_duncan"),
	lit("Ula_DgnHall_Tirnanog_before1", "albey_altar"),
	lit("Ula_DgnHall_Tirnanog_before2", "albey_altar_test"),
	lit("Ula_DgnHall_Tirnanog_after", "albey_altar_entrance"),
	lit("Sidhe_Sneachta_S", "sidhe_north"),
	lit("Sidhe_Sneachta_N", "sidhe_south"),
	lit("Ula_DgnHall_Danu_before", "fiodh_altar"),
	lit("Ula_DgnHall_Danu_after", "fiodh_entrance"),
	lit("Ula_", ""),
	lit("Emainmacha", "emain_macha"),
	lit("DgnHall_Coill_before", "coill_altar"),
	lit("DgnHall_Coill_after", "coill_entrance"),
	lit("emain_macha_Ceo", "ceo"),
	lit("DgnHall_Runda_before", "rundal_altar"),
	lit("DgnHall_Runda_after", "rundal_entrance"),
	lit("emain_macha_OidTobar_Hall", "ceo_cellar"),
	lit("Studio_Runda", "studio_rundal_boss"),
	lit("dunbarton_SchoolHall_before", "dunbarton_school_altar"),
	lit("dunbarton_School_LectureRoom", "dunbarton_school_library"),
	lit("Dgnhall_Peaca_before", "peaca_altar"),
	lit("Dgnhall_Peaca_after", "peaca_entrance"),
	lit("DgnHall_Tirnanog_G3_before", "baol_altar"),
	lit("DgnHall_Tirnanog_G3_after", "baol_entrance"),
	lit("Private_Wedding_waitingroom", "emain_macha_wedding_waiting"),
	lit("Private_Wedding_ceremonialhall", "emain_macha_wedding_ceremony"),
	lit("Dugald_Aisle_UserHouse", "dugald_userhouse"),
	lit("tnn_G3_Gairech_Hill", "tnn_gairech"),
	lit("Dugald_Aisle_UserCastleTest1", "user_castle_test_1"),
	lit("Dugald_Aisle_UserCastleTest2", "user_castle_test_2"),
	lit("tnn_G3", "tnn_bangor"),
	rx(`_TestRegion([0-9]+)`, "test_region_${1}"),
	rx(`dugald_userhouse_int_([0-9]+)`, "user_house_int_${1}"),
	lit("Dugald_Aisle_UserCastle_", "user_castle_"),
	lit("Dugald_Aisle_ModelHouse", "model_house"),
	lit("DgnArena_Dunbarton_Arena", "rabbie_battle_arena"),
	lit("DgnArena_Dunbarton_Lobby", "rabbie_battle_arena_lobby"),
	lit("DgnArena_Dunbarton_waitingroom", "rabbie_battle_arena_waiting"),
	lit("Iria_Harbor_01", "iria_harbor"),
	lit("Iria_SW_ruins_DG_before", "rano_ruins_altar"),
	lit("Iria_SW_ruins_DG_after", "rano_ruins_entrance"),
	lit("ArenaTest0", "arena_test_0"),
	lit("Loginstage_0", "login_stage_0"),
	lit("Iria_NN_dragoncave01", "renes"),
	lit("hardmode_DgnHall_TirChonaill_after", "alby_hard_entrance"),
	lit("hardmode_DgnHall_Ciar_before", "ciar_hard_altar"),
	lit("hardmode_DgnHall_Ciar_after", "ciar_hard_entrance"),
	lit("hardmode_rundal_altar", "rundal_hard_altar"),
	lit("hardmode_rundal_entrance", "rundal_hard_entrance"),
	lit("Uladh_Cobh", "cobh"),
	lit("Dunbarton_LectureRoom", "dunbarton_school_library"),
	lit("OidTobar_Hall", "ceo_cellar"),
	lit("Dugald_Aisle_Town", "dugald_residential"),
	lit("_Keep", "_castle_entrance"),
	lit("Dugald_Aisle", "dugald"),
	lit("keep_DgnHall_after", "dungeon_altar"),
	lit("keep_DgnHall_before", "dungeon_entrance"),
	lit("Studio_keep_DG", "studio_residential"),
	lit("Housing_CharDummyStage", "housing_dummy"),
	lit("Private_giant_Wedding_ceremonialhall", "vales_wedding_ceremony"),
	lit("Private_giant_Wedding_waitingroom", "vales_wedding_waiting"),
	lit("Private_Promotion_testRoom_waiting", "advancement_test_waiting"),
	lit("Private_Promotion_testRoom", "advancement_test"),
	rx(`_town$`, "_residential"),
	lit("Soulstream", "soul_stream"),
	lit("soul_stream_region", "soul_stream_battle"),
	lit("taillteann_main_field", "taillteann"),
	lit("Taillteann_E_field", "sliab_cuilin"),
	lit("Taillteann_SE_field", "abb_neagh"),
	lit("Tara_N_Field", "comb_valley"),
	lit("Tara_main_field", "tara"),
	lit("Tara_SE_Field", "blago_prairie"),
	lit("Tara_tournament_field", "tara_jousting"),
	lit("Tara_cloth", "tara_clothing"),
	rx(`_misc$`, "_general"),
	lit("Falias_main_field", "falias"),
	lit("Avon_main_field", "avon"),
	lit("JP_Nekojima_islet", "nekojima"),
	lit("JP_Nekojima_dungeon_hall_after", "nekojima_dungeon_entrance"),
	lit("JP_Nekojima", "nekojima"),
	lit("TirnanogDG", "Tirnanog_DG"),
	lit("Tirnanog", "tnn"),
	lit("Nao_tutorial", "soul_stream"),
	lit("G1_GoddessStage", "morrighan"),
	lit("Event_moonsurface", "event_moon"),
	lit("pvp_event", "event_pvp"),
	lit("Event", "event"),
	lit("event_impdream", "event_imp_dream"),
	lit("Iria_SW_main_field", "rano"),
	lit("Iria_Uladh_Ocean_fishingboat_float", "rano_fishing_boat"),
	lit("Iria_to_fishingboat", "rano_to_fishingboat"),
	lit("fishingboat_to_Iria", "fishingboat_to_rano"),
	lit("Iria_SE_main_field", "connous"),
	lit("Iria_SE_Desert_underground", "ant_tunnel"),
	lit("Iria_SE", "filia"),
	lit("Iria_NW", "physis"),
	lit("Iria_SW", "rano"),
	lit("MineField", "mine_field"),
	lit("monsterraid01", "monster_raid"),
	lit("ElfArena", "arena"),
	lit("Iria_Elf", "elf"),
	lit("physis_main_field", "physis"),
	lit("physis_tunnel_S", "physis_tunnel_south"),
	lit("physis_tunnel_N", "physis_tunnel_north"),
	lit("physis_tunnel_Outside", "solea"),
	lit("physis_Tutorial", "giant_tutorial"),
	lit("Studio", "studio"),
	lit("_mineB", "_mine_B"),
	lit("Iria_C", "courcle"),
	lit("Iria_NN", "zardine"),
	lit("_main_field", ""),
	lit("Belfast_human", "belfast"),
	lit("Qwest", "quest"),
	lit("Belfast_Skatha", "scathach"),
	lit("physis_glacier01_DG", "par"),
	lit("par_after", "par_altar"),
	lit("par_before", "par_entrance"),
	lit("Test01", "test_01"),
	lit("Test02", "test_02"),
	lit("Tara_keep_RG", "tara_castle"),
	lit("Tara_town_RG", "tara_residential"),
	lit("_TestRegion", "gm_island"),
	rx(`_Cloth$`, "_clothing"),
	lit("filia_Desert_01_DG_after", "longa_altar"),
	lit("filia_Desert_01_DG_before", "longa_entrance"),
	lit("Private_igloo_01", "igloo"),
	lit("BlockRegion", "block_region"),
	lit("soul_stream_past_region", "soul_stream_past"),
	lit("soul_stream_future_region", "soul_stream_future"),
	lit("RE_Nekojima_islet", "doki_doki_island"),
	lit("DramaIriaS2", "drama_iria_s2"),
}

// NormalizeRegionName maps a client region name such as "Uladh_Dunbarton"
// to the lower-case slug used by server data ("dunbarton").
func NormalizeRegionName(clientName string) string {
	name := clientName
	for _, rule := range regionNameRules {
		name = rule.apply(name)
	}
	return strings.ToLower(name)
}
