package chain

// Minimal ABI fragments: only the read functions the quoting engine calls.

const v2RouterABIJSON = `[
  {
    "inputs": [
      { "internalType": "uint256",   "name": "amountIn", "type": "uint256" },
      { "internalType": "address[]", "name": "path",     "type": "address[]" }
    ],
    "name": "getAmountsOut",
    "outputs": [
      { "internalType": "uint256[]", "name": "amounts", "type": "uint256[]" }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      { "internalType": "uint256",   "name": "amountOut", "type": "uint256" },
      { "internalType": "address[]", "name": "path",      "type": "address[]" }
    ],
    "name": "getAmountsIn",
    "outputs": [
      { "internalType": "uint256[]", "name": "amounts", "type": "uint256[]" }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const v3QuoterABIJSON = `[
  {
    "inputs": [
      { "internalType": "address", "name": "tokenIn",           "type": "address" },
      { "internalType": "address", "name": "tokenOut",          "type": "address" },
      { "internalType": "uint24",  "name": "fee",               "type": "uint24" },
      { "internalType": "uint256", "name": "amountIn",          "type": "uint256" },
      { "internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160" }
    ],
    "name": "quoteExactInputSingle",
    "outputs": [
      { "internalType": "uint256", "name": "amountOut", "type": "uint256" }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      { "internalType": "address", "name": "tokenIn",           "type": "address" },
      { "internalType": "address", "name": "tokenOut",          "type": "address" },
      { "internalType": "uint24",  "name": "fee",               "type": "uint24" },
      { "internalType": "uint256", "name": "amountOut",         "type": "uint256" },
      { "internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160" }
    ],
    "name": "quoteExactOutputSingle",
    "outputs": [
      { "internalType": "uint256", "name": "amountIn", "type": "uint256" }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

const algebraQuoterABIJSON = `[
  {
    "inputs": [
      { "internalType": "address", "name": "tokenIn",        "type": "address" },
      { "internalType": "address", "name": "tokenOut",       "type": "address" },
      { "internalType": "uint256", "name": "amountIn",       "type": "uint256" },
      { "internalType": "uint160", "name": "limitSqrtPrice", "type": "uint160" }
    ],
    "name": "quoteExactInputSingle",
    "outputs": [
      { "internalType": "uint256", "name": "amountOut", "type": "uint256" },
      { "internalType": "uint16",  "name": "fee",       "type": "uint16" }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      { "internalType": "address", "name": "tokenIn",        "type": "address" },
      { "internalType": "address", "name": "tokenOut",       "type": "address" },
      { "internalType": "uint256", "name": "amountOut",      "type": "uint256" },
      { "internalType": "uint160", "name": "limitSqrtPrice", "type": "uint160" }
    ],
    "name": "quoteExactOutputSingle",
    "outputs": [
      { "internalType": "uint256", "name": "amountIn", "type": "uint256" },
      { "internalType": "uint16",  "name": "fee",      "type": "uint16" }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`
