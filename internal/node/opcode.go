// Code generated from original_source/Opcodes.h opcode ordering; do not reorder
// existing entries without updating any persisted opcode tags.
package node

// Kind is the tag of an evaluable node: one of the seven base data shapes
// (Null/Bool/Number/String/Symbol/List/Assoc) or one of the closed
// set of opcode tags below. A single integer enum is sufficient because every
// opcode's payload has the same shape: a list of child handles, or for the
// base data kinds, an immediate scalar.
type Kind uint16

const (
	OpSystem Kind = iota // ENT_SYSTEM
	OpGetDefaults // ENT_GET_DEFAULTS
	OpParse // ENT_PARSE
	OpUnparse // ENT_UNPARSE
	OpIf // ENT_IF
	OpSequence // ENT_SEQUENCE
	OpParallel // ENT_PARALLEL
	OpLambda // ENT_LAMBDA
	OpConclude // ENT_CONCLUDE
	OpReturn // ENT_RETURN
	OpCall // ENT_CALL
	OpCallSandboxed // ENT_CALL_SANDBOXED
	OpWhile // ENT_WHILE
	OpLet // ENT_LET
	OpDeclare // ENT_DECLARE
	OpAssign // ENT_ASSIGN
	OpAccum // ENT_ACCUM
	OpRetrieve // ENT_RETRIEVE
	OpGet // ENT_GET
	OpSet // ENT_SET
	OpReplace // ENT_REPLACE
	OpTarget // ENT_TARGET
	OpCurrentIndex // ENT_CURRENT_INDEX
	OpCurrentValue // ENT_CURRENT_VALUE
	OpPreviousResult // ENT_PREVIOUS_RESULT
	OpOpcodeStack // ENT_OPCODE_STACK
	OpStack // ENT_STACK
	OpArgs // ENT_ARGS
	OpRand // ENT_RAND
	OpGetRandSeed // ENT_GET_RAND_SEED
	OpSetRandSeed // ENT_SET_RAND_SEED
	OpSystemTime // ENT_SYSTEM_TIME
	OpAdd // ENT_ADD
	OpSubtract // ENT_SUBTRACT
	OpMultiply // ENT_MULTIPLY
	OpDivide // ENT_DIVIDE
	OpModulus // ENT_MODULUS
	OpGetDigits // ENT_GET_DIGITS
	OpSetDigits // ENT_SET_DIGITS
	OpFloor // ENT_FLOOR
	OpCeiling // ENT_CEILING
	OpRound // ENT_ROUND
	OpExponent // ENT_EXPONENT
	OpLog // ENT_LOG
	OpSin // ENT_SIN
	OpAsin // ENT_ASIN
	OpCos // ENT_COS
	OpAcos // ENT_ACOS
	OpTan // ENT_TAN
	OpAtan // ENT_ATAN
	OpSinh // ENT_SINH
	OpAsinh // ENT_ASINH
	OpCosh // ENT_COSH
	OpAcosh // ENT_ACOSH
	OpTanh // ENT_TANH
	OpAtanh // ENT_ATANH
	OpErf // ENT_ERF
	OpTgamma // ENT_TGAMMA
	OpLgamma // ENT_LGAMMA
	OpSqrt // ENT_SQRT
	OpPow // ENT_POW
	OpAbs // ENT_ABS
	OpMax // ENT_MAX
	OpMin // ENT_MIN
	OpIndexMax // ENT_INDEX_MAX
	OpIndexMin // ENT_INDEX_MIN
	OpDotProduct // ENT_DOT_PRODUCT
	OpGeneralizedDistance // ENT_GENERALIZED_DISTANCE
	OpEntropy // ENT_ENTROPY
	OpFirst // ENT_FIRST
	OpTail // ENT_TAIL
	OpLast // ENT_LAST
	OpTrunc // ENT_TRUNC
	OpAppend // ENT_APPEND
	OpSize // ENT_SIZE
	OpRange // ENT_RANGE
	OpRewrite // ENT_REWRITE
	OpMap // ENT_MAP
	OpFilter // ENT_FILTER
	OpWeave // ENT_WEAVE
	OpReduce // ENT_REDUCE
	OpApply // ENT_APPLY
	OpReverse // ENT_REVERSE
	OpSort // ENT_SORT
	OpIndices // ENT_INDICES
	OpValues // ENT_VALUES
	OpContainsIndex // ENT_CONTAINS_INDEX
	OpContainsValue // ENT_CONTAINS_VALUE
	OpRemove // ENT_REMOVE
	OpKeep // ENT_KEEP
	OpAssociate // ENT_ASSOCIATE
	OpZip // ENT_ZIP
	OpUnzip // ENT_UNZIP
	OpAnd // ENT_AND
	OpOr // ENT_OR
	OpXor // ENT_XOR
	OpNot // ENT_NOT
	OpEqual // ENT_EQUAL
	OpNequal // ENT_NEQUAL
	OpLess // ENT_LESS
	OpLequal // ENT_LEQUAL
	OpGreater // ENT_GREATER
	OpGequal // ENT_GEQUAL
	OpTypeEquals // ENT_TYPE_EQUALS
	OpTypeNequals // ENT_TYPE_NEQUALS
	OpNull // ENT_NULL
	OpList // ENT_LIST
	OpAssoc // ENT_ASSOC
	OpBool // ENT_BOOL
	OpNumber // ENT_NUMBER
	OpString // ENT_STRING
	OpSymbol // ENT_SYMBOL
	OpGetType // ENT_GET_TYPE
	OpGetTypeString // ENT_GET_TYPE_STRING
	OpSetType // ENT_SET_TYPE
	OpFormat // ENT_FORMAT
	OpGetLabels // ENT_GET_LABELS
	OpGetAllLabels // ENT_GET_ALL_LABELS
	OpSetLabels // ENT_SET_LABELS
	OpZipLabels // ENT_ZIP_LABELS
	OpGetComments // ENT_GET_COMMENTS
	OpSetComments // ENT_SET_COMMENTS
	OpGetConcurrency // ENT_GET_CONCURRENCY
	OpSetConcurrency // ENT_SET_CONCURRENCY
	OpGetValue // ENT_GET_VALUE
	OpSetValue // ENT_SET_VALUE
	OpExplode // ENT_EXPLODE
	OpSplit // ENT_SPLIT
	OpSubstr // ENT_SUBSTR
	OpConcat // ENT_CONCAT
	OpCryptoSign // ENT_CRYPTO_SIGN
	OpCryptoSignVerify // ENT_CRYPTO_SIGN_VERIFY
	OpEncrypt // ENT_ENCRYPT
	OpDecrypt // ENT_DECRYPT
	OpPrint // ENT_PRINT
	OpTotalSize // ENT_TOTAL_SIZE
	OpMutate // ENT_MUTATE
	OpCommonality // ENT_COMMONALITY
	OpEditDistance // ENT_EDIT_DISTANCE
	OpIntersect // ENT_INTERSECT
	OpUnion // ENT_UNION
	OpDifference // ENT_DIFFERENCE
	OpMix // ENT_MIX
	OpMixLabels // ENT_MIX_LABELS
	OpTotalEntitySize // ENT_TOTAL_ENTITY_SIZE
	OpFlattenEntity // ENT_FLATTEN_ENTITY
	OpMutateEntity // ENT_MUTATE_ENTITY
	OpCommonalityEntities // ENT_COMMONALITY_ENTITIES
	OpEditDistanceEntities // ENT_EDIT_DISTANCE_ENTITIES
	OpIntersectEntities // ENT_INTERSECT_ENTITIES
	OpUnionEntities // ENT_UNION_ENTITIES
	OpDifferenceEntities // ENT_DIFFERENCE_ENTITIES
	OpMixEntities // ENT_MIX_ENTITIES
	OpGetEntityComments // ENT_GET_ENTITY_COMMENTS
	OpRetrieveEntityRoot // ENT_RETRIEVE_ENTITY_ROOT
	OpAssignEntityRoots // ENT_ASSIGN_ENTITY_ROOTS
	OpAccumEntityRoots // ENT_ACCUM_ENTITY_ROOTS
	OpGetEntityRandSeed // ENT_GET_ENTITY_RAND_SEED
	OpSetEntityRandSeed // ENT_SET_ENTITY_RAND_SEED
	OpGetEntityRootPermission // ENT_GET_ENTITY_ROOT_PERMISSION
	OpSetEntityRootPermission // ENT_SET_ENTITY_ROOT_PERMISSION
	OpCreateEntities // ENT_CREATE_ENTITIES
	OpCloneEntities // ENT_CLONE_ENTITIES
	OpMoveEntities // ENT_MOVE_ENTITIES
	OpDestroyEntities // ENT_DESTROY_ENTITIES
	OpLoad // ENT_LOAD
	OpLoadEntity // ENT_LOAD_ENTITY
	OpStore // ENT_STORE
	OpStoreEntity // ENT_STORE_ENTITY
	OpContainsEntity // ENT_CONTAINS_ENTITY
	OpContainedEntities // ENT_CONTAINED_ENTITIES
	OpComputeOnContainedEntities // ENT_COMPUTE_ON_CONTAINED_ENTITIES
	OpQuerySelect // ENT_QUERY_SELECT
	OpQuerySample // ENT_QUERY_SAMPLE
	OpQueryInEntityList // ENT_QUERY_IN_ENTITY_LIST
	OpQueryNotInEntityList // ENT_QUERY_NOT_IN_ENTITY_LIST
	OpQueryExists // ENT_QUERY_EXISTS
	OpQueryNotExists // ENT_QUERY_NOT_EXISTS
	OpQueryEquals // ENT_QUERY_EQUALS
	OpQueryNotEquals // ENT_QUERY_NOT_EQUALS
	OpQueryBetween // ENT_QUERY_BETWEEN
	OpQueryNotBetween // ENT_QUERY_NOT_BETWEEN
	OpQueryAmong // ENT_QUERY_AMONG
	OpQueryNotAmong // ENT_QUERY_NOT_AMONG
	OpQueryMax // ENT_QUERY_MAX
	OpQueryMin // ENT_QUERY_MIN
	OpQuerySum // ENT_QUERY_SUM
	OpQueryMode // ENT_QUERY_MODE
	OpQueryQuantile // ENT_QUERY_QUANTILE
	OpQueryGeneralizedMean // ENT_QUERY_GENERALIZED_MEAN
	OpQueryMinDifference // ENT_QUERY_MIN_DIFFERENCE
	OpQueryMaxDifference // ENT_QUERY_MAX_DIFFERENCE
	OpQueryValueMasses // ENT_QUERY_VALUE_MASSES
	OpQueryGreaterOrEqualTo // ENT_QUERY_GREATER_OR_EQUAL_TO
	OpQueryLessOrEqualTo // ENT_QUERY_LESS_OR_EQUAL_TO
	OpQueryWithinGeneralizedDistance // ENT_QUERY_WITHIN_GENERALIZED_DISTANCE
	OpQueryNearestGeneralizedDistance // ENT_QUERY_NEAREST_GENERALIZED_DISTANCE
	OpComputeEntityConvictions // ENT_COMPUTE_ENTITY_CONVICTIONS
	OpComputeEntityGroupKlDivergence // ENT_COMPUTE_ENTITY_GROUP_KL_DIVERGENCE
	OpComputeEntityDistanceContributions // ENT_COMPUTE_ENTITY_DISTANCE_CONTRIBUTIONS
	OpComputeEntityKlDivergences // ENT_COMPUTE_ENTITY_KL_DIVERGENCES
	OpContainsLabel // ENT_CONTAINS_LABEL
	OpAssignToEntities // ENT_ASSIGN_TO_ENTITIES
	OpDirectAssignToEntities // ENT_DIRECT_ASSIGN_TO_ENTITIES
	OpAccumToEntities // ENT_ACCUM_TO_ENTITIES
	OpRetrieveFromEntity // ENT_RETRIEVE_FROM_ENTITY
	OpDirectRetrieveFromEntity // ENT_DIRECT_RETRIEVE_FROM_ENTITY
	OpCallEntity // ENT_CALL_ENTITY
	OpCallEntityGetChanges // ENT_CALL_ENTITY_GET_CHANGES
	OpCallContainer // ENT_CALL_CONTAINER
	OpDeallocated // ENT_DEALLOCATED
	OpUninitialized // ENT_UNINITIALIZED
	OpNotABuiltInType // ENT_NOT_A_BUILT_IN_TYPE
)

// opcodeNames maps each Kind to its canonical lowercase name, used by the
// parser/unparser interface and by diagnostic logging.
var opcodeNames = map[Kind]string{
	OpSystem: "system",
	OpGetDefaults: "get_defaults",
	OpParse: "parse",
	OpUnparse: "unparse",
	OpIf: "if",
	OpSequence: "sequence",
	OpParallel: "parallel",
	OpLambda: "lambda",
	OpConclude: "conclude",
	OpReturn: "return",
	OpCall: "call",
	OpCallSandboxed: "call_sandboxed",
	OpWhile: "while",
	OpLet: "let",
	OpDeclare: "declare",
	OpAssign: "assign",
	OpAccum: "accum",
	OpRetrieve: "retrieve",
	OpGet: "get",
	OpSet: "set",
	OpReplace: "replace",
	OpTarget: "target",
	OpCurrentIndex: "current_index",
	OpCurrentValue: "current_value",
	OpPreviousResult: "previous_result",
	OpOpcodeStack: "opcode_stack",
	OpStack: "stack",
	OpArgs: "args",
	OpRand: "rand",
	OpGetRandSeed: "get_rand_seed",
	OpSetRandSeed: "set_rand_seed",
	OpSystemTime: "system_time",
	OpAdd: "add",
	OpSubtract: "subtract",
	OpMultiply: "multiply",
	OpDivide: "divide",
	OpModulus: "modulus",
	OpGetDigits: "get_digits",
	OpSetDigits: "set_digits",
	OpFloor: "floor",
	OpCeiling: "ceiling",
	OpRound: "round",
	OpExponent: "exponent",
	OpLog: "log",
	OpSin: "sin",
	OpAsin: "asin",
	OpCos: "cos",
	OpAcos: "acos",
	OpTan: "tan",
	OpAtan: "atan",
	OpSinh: "sinh",
	OpAsinh: "asinh",
	OpCosh: "cosh",
	OpAcosh: "acosh",
	OpTanh: "tanh",
	OpAtanh: "atanh",
	OpErf: "erf",
	OpTgamma: "tgamma",
	OpLgamma: "lgamma",
	OpSqrt: "sqrt",
	OpPow: "pow",
	OpAbs: "abs",
	OpMax: "max",
	OpMin: "min",
	OpIndexMax: "index_max",
	OpIndexMin: "index_min",
	OpDotProduct: "dot_product",
	OpGeneralizedDistance: "generalized_distance",
	OpEntropy: "entropy",
	OpFirst: "first",
	OpTail: "tail",
	OpLast: "last",
	OpTrunc: "trunc",
	OpAppend: "append",
	OpSize: "size",
	OpRange: "range",
	OpRewrite: "rewrite",
	OpMap: "map",
	OpFilter: "filter",
	OpWeave: "weave",
	OpReduce: "reduce",
	OpApply: "apply",
	OpReverse: "reverse",
	OpSort: "sort",
	OpIndices: "indices",
	OpValues: "values",
	OpContainsIndex: "contains_index",
	OpContainsValue: "contains_value",
	OpRemove: "remove",
	OpKeep: "keep",
	OpAssociate: "associate",
	OpZip: "zip",
	OpUnzip: "unzip",
	OpAnd: "and",
	OpOr: "or",
	OpXor: "xor",
	OpNot: "not",
	OpEqual: "equal",
	OpNequal: "nequal",
	OpLess: "less",
	OpLequal: "lequal",
	OpGreater: "greater",
	OpGequal: "gequal",
	OpTypeEquals: "type_equals",
	OpTypeNequals: "type_nequals",
	OpNull: "null",
	OpList: "list",
	OpAssoc: "assoc",
	OpBool: "bool",
	OpNumber: "number",
	OpString: "string",
	OpSymbol: "symbol",
	OpGetType: "get_type",
	OpGetTypeString: "get_type_string",
	OpSetType: "set_type",
	OpFormat: "format",
	OpGetLabels: "get_labels",
	OpGetAllLabels: "get_all_labels",
	OpSetLabels: "set_labels",
	OpZipLabels: "zip_labels",
	OpGetComments: "get_comments",
	OpSetComments: "set_comments",
	OpGetConcurrency: "get_concurrency",
	OpSetConcurrency: "set_concurrency",
	OpGetValue: "get_value",
	OpSetValue: "set_value",
	OpExplode: "explode",
	OpSplit: "split",
	OpSubstr: "substr",
	OpConcat: "concat",
	OpCryptoSign: "crypto_sign",
	OpCryptoSignVerify: "crypto_sign_verify",
	OpEncrypt: "encrypt",
	OpDecrypt: "decrypt",
	OpPrint: "print",
	OpTotalSize: "total_size",
	OpMutate: "mutate",
	OpCommonality: "commonality",
	OpEditDistance: "edit_distance",
	OpIntersect: "intersect",
	OpUnion: "union",
	OpDifference: "difference",
	OpMix: "mix",
	OpMixLabels: "mix_labels",
	OpTotalEntitySize: "total_entity_size",
	OpFlattenEntity: "flatten_entity",
	OpMutateEntity: "mutate_entity",
	OpCommonalityEntities: "commonality_entities",
	OpEditDistanceEntities: "edit_distance_entities",
	OpIntersectEntities: "intersect_entities",
	OpUnionEntities: "union_entities",
	OpDifferenceEntities: "difference_entities",
	OpMixEntities: "mix_entities",
	OpGetEntityComments: "get_entity_comments",
	OpRetrieveEntityRoot: "retrieve_entity_root",
	OpAssignEntityRoots: "assign_entity_roots",
	OpAccumEntityRoots: "accum_entity_roots",
	OpGetEntityRandSeed: "get_entity_rand_seed",
	OpSetEntityRandSeed: "set_entity_rand_seed",
	OpGetEntityRootPermission: "get_entity_root_permission",
	OpSetEntityRootPermission: "set_entity_root_permission",
	OpCreateEntities: "create_entities",
	OpCloneEntities: "clone_entities",
	OpMoveEntities: "move_entities",
	OpDestroyEntities: "destroy_entities",
	OpLoad: "load",
	OpLoadEntity: "load_entity",
	OpStore: "store",
	OpStoreEntity: "store_entity",
	OpContainsEntity: "contains_entity",
	OpContainedEntities: "contained_entities",
	OpComputeOnContainedEntities: "compute_on_contained_entities",
	OpQuerySelect: "query_select",
	OpQuerySample: "query_sample",
	OpQueryInEntityList: "query_in_entity_list",
	OpQueryNotInEntityList: "query_not_in_entity_list",
	OpQueryExists: "query_exists",
	OpQueryNotExists: "query_not_exists",
	OpQueryEquals: "query_equals",
	OpQueryNotEquals: "query_not_equals",
	OpQueryBetween: "query_between",
	OpQueryNotBetween: "query_not_between",
	OpQueryAmong: "query_among",
	OpQueryNotAmong: "query_not_among",
	OpQueryMax: "query_max",
	OpQueryMin: "query_min",
	OpQuerySum: "query_sum",
	OpQueryMode: "query_mode",
	OpQueryQuantile: "query_quantile",
	OpQueryGeneralizedMean: "query_generalized_mean",
	OpQueryMinDifference: "query_min_difference",
	OpQueryMaxDifference: "query_max_difference",
	OpQueryValueMasses: "query_value_masses",
	OpQueryGreaterOrEqualTo: "query_greater_or_equal_to",
	OpQueryLessOrEqualTo: "query_less_or_equal_to",
	OpQueryWithinGeneralizedDistance: "query_within_generalized_distance",
	OpQueryNearestGeneralizedDistance: "query_nearest_generalized_distance",
	OpComputeEntityConvictions: "compute_entity_convictions",
	OpComputeEntityGroupKlDivergence: "compute_entity_group_kl_divergence",
	OpComputeEntityDistanceContributions: "compute_entity_distance_contributions",
	OpComputeEntityKlDivergences: "compute_entity_kl_divergences",
	OpContainsLabel: "contains_label",
	OpAssignToEntities: "assign_to_entities",
	OpDirectAssignToEntities: "direct_assign_to_entities",
	OpAccumToEntities: "accum_to_entities",
	OpRetrieveFromEntity: "retrieve_from_entity",
	OpDirectRetrieveFromEntity: "direct_retrieve_from_entity",
	OpCallEntity: "call_entity",
	OpCallEntityGetChanges: "call_entity_get_changes",
	OpCallContainer: "call_container",
	OpDeallocated: "deallocated",
	OpUninitialized: "uninitialized",
	OpNotABuiltInType: "not_a_built_in_type",
}

// String returns the canonical opcode name, or "unknown" for an
// out-of-range value.
func (k Kind) String() string {
	if name, ok := opcodeNames[k]; ok {
		return name
	}
	return "unknown"
}

// numOpcodes is the number of entries in the closed opcode set, including
// the three sentinel kinds (deallocated/uninitialized/not-a-built-in-type).
const numOpcodes = 213
